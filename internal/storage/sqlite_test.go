package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/money"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "centavo-test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTransaction(id, accountID string, minor int64, day int) model.Transaction {
	txn := model.Transaction{
		ID:           id,
		AccountID:    accountID,
		Date:         time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(minor, money.PHP),
		Name:         "RAW STATEMENT LINE",
		MerchantName: "Grocery Store",
		Status:       model.StatusCleared,
		CreatedAt:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSaveAndGetTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTransaction("txn-1", "acct-1", -5000, 15),
		testTransaction("txn-2", "acct-1", 500000, 16),
		testTransaction("txn-3", "acct-2", -1200, 15),
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	t.Run("by account", func(t *testing.T) {
		got, err := store.GetTransactionsByAccount(ctx, "acct-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "txn-1", got[0].ID)
		assert.Equal(t, int64(-5000), got[0].Amount.MinorUnits())
		assert.Equal(t, "PHP", got[0].Amount.Currency().Code)
		assert.Equal(t, model.StatusCleared, got[0].Status)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := store.GetTransactionByID(ctx, "txn-2")
		require.NoError(t, err)
		assert.Equal(t, int64(500000), got.Amount.MinorUnits())
		assert.Equal(t, "Grocery Store", got.MerchantName)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.GetTransactionByID(ctx, "txn-999")
		require.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("count", func(t *testing.T) {
		count, err := store.GetTransactionCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("by date range", func(t *testing.T) {
		got, err := store.GetTransactionsByDateRange(ctx,
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 15, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("inverted date range", func(t *testing.T) {
		_, err := store.GetTransactionsByDateRange(ctx,
			time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
		require.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestSaveTransactions_HashDeduplication(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", "acct-1", -5000, 15)
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))

	// Same hash under a different ID is silently ignored.
	dup := testTransaction("txn-2", "acct-1", -5000, 15)
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{dup}))

	count, err := store.GetTransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveTransactions_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	t.Run("empty slice", func(t *testing.T) {
		err := store.SaveTransactions(ctx, []model.Transaction{})
		require.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("missing account", func(t *testing.T) {
		txn := testTransaction("txn-1", "acct-1", -5000, 15)
		txn.AccountID = ""
		err := store.SaveTransactions(ctx, []model.Transaction{txn})
		require.ErrorIs(t, err, ErrInvalidTransaction)
	})
}

func TestBeginTx(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	t.Run("commit persists", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveTransactions(ctx, []model.Transaction{
			testTransaction("txn-commit", "acct-1", -100, 10),
		}))
		require.NoError(t, tx.Commit())

		got, err := store.GetTransactionByID(ctx, "txn-commit")
		require.NoError(t, err)
		assert.Equal(t, int64(-100), got.Amount.MinorUnits())
	})

	t.Run("rollback discards", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveTransactions(ctx, []model.Transaction{
			testTransaction("txn-rollback", "acct-1", -200, 11),
		}))
		require.NoError(t, tx.Rollback())

		_, err = store.GetTransactionByID(ctx, "txn-rollback")
		require.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("nested transactions rejected", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		_, err = tx.BeginTx(ctx)
		require.Error(t, err)
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	// A second run is a no-op.
	require.NoError(t, store.Migrate(context.Background()))

	version, err := store.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}
