package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/money"
	"github.com/centavo-dev/centavo/internal/service"
)

// mockStorage implements service.Storage in memory for orchestration tests.
type mockStorage struct {
	saved     []model.Transaction
	existing  map[string][]model.Transaction
	saveErr   error
	saveCalls int
}

func newMockStorage() *mockStorage {
	return &mockStorage{existing: make(map[string][]model.Transaction)}
}

func (m *mockStorage) SaveTransactions(_ context.Context, transactions []model.Transaction) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, transactions...)
	return nil
}

func (m *mockStorage) GetTransactionsByAccount(_ context.Context, accountID string) ([]model.Transaction, error) {
	return m.existing[accountID], nil
}

func (m *mockStorage) GetTransactionByID(_ context.Context, _ string) (*model.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStorage) GetTransactionsByDateRange(_ context.Context, _, _ time.Time) ([]model.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStorage) GetTransactionCount(_ context.Context) (int, error) {
	return len(m.saved), nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }

func (m *mockStorage) BeginTx(_ context.Context) (service.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStorage) Close() error { return nil }

const testCSV = "Date,Description,Amount\n" +
	"2025-01-15,Grocery Store,-50.00\n" +
	"2025-01-16,Salary,5000.00\n" +
	"2025-01-17,Coffee Shop,-3.50"

var importNow = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func TestGeneratePreview(t *testing.T) {
	store := newMockStorage()
	store.existing["acct-1"] = []model.Transaction{{
		ID:           "txn-old",
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(-5000, money.PHP),
		MerchantName: "Grocery Store",
	}}

	svc := NewService(store)
	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)

	require.Len(t, preview.Rows, 3)
	assert.Equal(t, 2, preview.NewCount())
	assert.Equal(t, 1, preview.DuplicateCount())
	assert.Equal(t, 0, preview.ErrorCount())

	// Duplicates default to unselected, new rows to selected.
	assert.False(t, preview.Rows[0].Selected)
	assert.True(t, preview.Rows[0].Match.IsDuplicate)
	assert.Equal(t, "txn-old", preview.Rows[0].Match.MatchedID)
	assert.True(t, preview.Rows[1].Selected)
	assert.True(t, preview.Rows[2].Selected)

	for _, row := range preview.Rows {
		assert.NotEmpty(t, row.PreviewID)
	}
}

func TestPreviewSelectionTransitions(t *testing.T) {
	svc := NewService(newMockStorage())
	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)
	require.Equal(t, 3, preview.SelectedCount())

	assert.True(t, preview.ToggleSelection(preview.Rows[1].PreviewID))
	assert.Equal(t, 2, preview.SelectedCount())

	assert.False(t, preview.ToggleSelection("no-such-id"))

	preview.SetAllSelected(false)
	assert.Equal(t, 0, preview.SelectedCount())
	preview.SetAllSelected(true)
	assert.Equal(t, 3, preview.SelectedCount())
}

func TestImportTransactions_SelectiveCommit(t *testing.T) {
	store := newMockStorage()
	store.existing["acct-1"] = []model.Transaction{{
		ID:           "txn-old",
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(-5000, money.PHP),
		MerchantName: "Grocery Store",
	}}

	svc := NewService(store)
	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)

	result, err := svc.ImportTransactions(context.Background(), "acct-1", money.PHP, preview, importNow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped, "the unselected duplicate is skipped")
	assert.Equal(t, 0, result.Duplicates)
	require.Len(t, store.saved, 2)
	assert.Equal(t, 1, store.saveCalls, "a single bulk save")

	for _, txn := range store.saved {
		assert.Equal(t, model.StatusCleared, txn.Status)
		assert.Equal(t, importNow, txn.CreatedAt)
		assert.Equal(t, "acct-1", txn.AccountID)
		assert.NotEmpty(t, txn.ID)
		assert.NotEmpty(t, txn.Hash)
	}
}

func TestImportTransactions_ReselectedDuplicateCountsSeparately(t *testing.T) {
	store := newMockStorage()
	store.existing["acct-1"] = []model.Transaction{{
		ID:           "txn-old",
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(-5000, money.PHP),
		MerchantName: "Grocery Store",
	}}

	svc := NewService(store)
	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)

	preview.SetAllSelected(true)

	result, err := svc.ImportTransactions(context.Background(), "acct-1", money.PHP, preview, importNow)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Duplicates, "imported despite being flagged")
	assert.Equal(t, 0, result.Skipped)
}

func TestImportTransactions_NothingSelected(t *testing.T) {
	store := newMockStorage()
	svc := NewService(store)

	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)
	preview.SetAllSelected(false)

	result, err := svc.ImportTransactions(context.Background(), "acct-1", money.PHP, preview, importNow)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 0, store.saveCalls, "no save call when nothing is selected")
}

func TestImportTransactions_CurrencyMismatch(t *testing.T) {
	svc := NewService(newMockStorage())
	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)

	_, err = svc.ImportTransactions(context.Background(), "acct-1", money.USD, preview, importNow)
	require.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestImportTransactions_PersistenceErrorPropagates(t *testing.T) {
	store := newMockStorage()
	store.saveErr = errors.New("disk full")
	svc := NewService(store)

	preview, err := svc.GeneratePreview(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP)
	require.NoError(t, err)

	_, err = svc.ImportTransactions(context.Background(), "acct-1", money.PHP, preview, importNow)
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, store.saved, "a failed bulk write imports nothing")
}

func TestImport_SkipDuplicates(t *testing.T) {
	store := newMockStorage()
	store.existing["acct-1"] = []model.Transaction{{
		ID:           "txn-old",
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(-5000, money.PHP),
		MerchantName: "Grocery Store",
	}}
	svc := NewService(store)

	result, err := svc.Import(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP, true, importNow)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, store.saved, 2)
}

func TestImport_KeepDuplicates(t *testing.T) {
	store := newMockStorage()
	store.existing["acct-1"] = []model.Transaction{{
		ID:           "txn-old",
		Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(-5000, money.PHP),
		MerchantName: "Grocery Store",
	}}
	svc := NewService(store)

	result, err := svc.Import(context.Background(), testCSV, mustFormat(t, "simple"), "acct-1", money.PHP, false, importNow)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Len(t, store.saved, 3)
}

func TestImport_ParseErrorsSurfaceInResult(t *testing.T) {
	csvText := "Date,Description,Amount\n" +
		"2025-01-15,Grocery Store,-50.00\n" +
		"bad-date,Broken,-1.00"

	svc := NewService(newMockStorage())
	result, err := svc.Import(context.Background(), csvText, mustFormat(t, "simple"), "acct-1", money.PHP, false, importNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 3, result.RowErrors[0].Row)
}

func TestAutoDetectAndPreview(t *testing.T) {
	svc := NewService(newMockStorage())

	t.Run("detected", func(t *testing.T) {
		mapping, preview, err := svc.AutoDetectAndPreview(context.Background(), testCSV, "acct-1", money.PHP)
		require.NoError(t, err)
		assert.Equal(t, "simple", mapping.Name)
		assert.Len(t, preview.Rows, 3)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, err := svc.AutoDetectAndPreview(context.Background(), "Foo,Bar\n1,2\n", "acct-1", money.PHP)
		require.ErrorIs(t, err, ErrNoFormatMatch)
	})
}

func TestAvailableFormats(t *testing.T) {
	formats := NewService(newMockStorage()).AvailableFormats()
	require.Len(t, formats, 3)
	assert.Equal(t, "simple", formats[0].Name)
	assert.Equal(t, "debit-credit", formats[1].Name)
	assert.Equal(t, "bank-statement", formats[2].Name)
}

func mustFormat(t *testing.T, name string) ColumnMapping {
	t.Helper()
	m, err := FormatByName(name)
	require.NoError(t, err)
	return m
}
