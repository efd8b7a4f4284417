package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/money"
)

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		AccountID:    "acct-1",
		MerchantName: "Grocery Store",
		Amount:       money.New(-5000, money.PHP),
	}

	tests := []struct {
		mutate   func(*Transaction)
		name     string
		wantSame bool
	}{
		{name: "identical transactions", mutate: func(*Transaction) {}, wantSame: true},
		{name: "different amount", mutate: func(tx *Transaction) { tx.Amount = money.New(-5001, money.PHP) }},
		{name: "different currency", mutate: func(tx *Transaction) { tx.Amount = money.New(-5000, money.USD) }},
		{name: "different date", mutate: func(tx *Transaction) { tx.Date = tx.Date.AddDate(0, 0, 1) }},
		{name: "different merchant", mutate: func(tx *Transaction) { tx.MerchantName = "Other Store" }},
		{name: "different account", mutate: func(tx *Transaction) { tx.AccountID = "acct-2" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			if tt.wantSame {
				assert.Equal(t, base.GenerateHash(), other.GenerateHash())
			} else {
				assert.NotEqual(t, base.GenerateHash(), other.GenerateHash())
			}
		})
	}
}

func TestNewTransferPair(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("balanced pair", func(t *testing.T) {
		from, to, err := NewTransferPair("checking", "savings",
			money.New(-10000, money.PHP), money.New(10000, money.PHP), date, "xfer-1")
		require.NoError(t, err)
		assert.Equal(t, "checking", from.AccountID)
		assert.Equal(t, "savings", to.AccountID)
		assert.Equal(t, "xfer-1", from.TransferID)
		assert.Equal(t, "xfer-1", to.TransferID)
		assert.Equal(t, StatusCleared, from.Status)
		assert.Equal(t, int64(0), from.Amount.MinorUnits()+to.Amount.MinorUnits())
	})

	t.Run("unbalanced pair rejected", func(t *testing.T) {
		_, _, err := NewTransferPair("checking", "savings",
			money.New(-10000, money.PHP), money.New(9999, money.PHP), date, "xfer-2")
		require.ErrorIs(t, err, money.ErrUnbalancedTransfer)
	})
}
