package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/money"
)

func TestFormatAmount(t *testing.T) {
	php, err := money.CurrencyByCode("PHP")
	require.NoError(t, err)
	usd, err := money.CurrencyByCode("USD")
	require.NoError(t, err)
	jpy, err := money.CurrencyByCode("JPY")
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   money.Money
		expected string
	}{
		{name: "positive pesos", amount: money.New(123456, php), expected: "₱1234.56"},
		{name: "negative dollars", amount: money.New(-2550, usd), expected: "-$25.50"},
		{name: "zero", amount: money.New(0, php), expected: "₱0.00"},
		{name: "yen has no decimals", amount: money.New(1500, jpy), expected: "¥1500"},
		{name: "single centavo", amount: money.New(1, php), expected: "₱0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(tt.amount))
		})
	}
}
