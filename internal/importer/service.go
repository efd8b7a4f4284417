package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/money"
	"github.com/centavo-dev/centavo/internal/service"
)

// Service orchestrates the import pipeline: parse, classify against
// persisted transactions, stage a preview, and commit the selected subset in
// one bulk write.
type Service struct {
	storage  service.Storage
	parser   *Parser
	detector *Detector
}

// NewService creates an import service backed by the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{
		storage:  storage,
		parser:   NewParser(),
		detector: NewDetector(),
	}
}

// GeneratePreview parses the CSV, classifies each row against the account's
// persisted transactions, and stages a selectable preview. Duplicates start
// unselected, new rows selected.
func (s *Service) GeneratePreview(ctx context.Context, csvText string, mapping ColumnMapping, accountID string, currency money.Currency) (*ImportPreview, error) {
	result, err := s.parser.ParseWithErrors(csvText, mapping, currency)
	if err != nil {
		return nil, err
	}
	return s.assemblePreview(ctx, result, accountID)
}

// AutoDetectAndPreview combines format auto-detection with preview
// generation, returning the detected mapping alongside the preview. Returns
// ErrNoFormatMatch when no built-in preset fits the header.
func (s *Service) AutoDetectAndPreview(ctx context.Context, csvText string, accountID string, currency money.Currency) (ColumnMapping, *ImportPreview, error) {
	mapping, result, err := s.parser.AutoDetect(csvText, currency)
	if err != nil {
		return ColumnMapping{}, nil, err
	}

	preview, err := s.assemblePreview(ctx, result, accountID)
	if err != nil {
		return ColumnMapping{}, nil, err
	}
	return mapping, preview, nil
}

// PreviewParsed stages already-parsed transactions (e.g. from an OFX file)
// through the same duplicate classification as CSV rows.
func (s *Service) PreviewParsed(ctx context.Context, transactions []ParsedTransaction, accountID string) (*ImportPreview, error) {
	return s.assemblePreview(ctx, &ParseResult{Transactions: transactions}, accountID)
}

func (s *Service) assemblePreview(ctx context.Context, result *ParseResult, accountID string) (*ImportPreview, error) {
	existing, err := s.storage.GetTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("fetching existing transactions for %s: %w", accountID, err)
	}

	matches := s.detector.CheckDuplicates(result.Transactions, existing)

	preview := &ImportPreview{
		Rows:   make([]PreviewRow, len(result.Transactions)),
		Errors: result.Errors,
	}
	for i, txn := range result.Transactions {
		preview.Rows[i] = PreviewRow{
			PreviewID:   uuid.NewString(),
			Transaction: txn,
			Match:       matches[i],
			Selected:    !matches[i].IsDuplicate,
		}
	}

	slog.Debug("Assembled import preview",
		"account", accountID,
		"new", preview.NewCount(),
		"duplicates", preview.DuplicateCount(),
		"errors", preview.ErrorCount())

	return preview, nil
}

// ImportTransactions persists the selected preview rows in a single bulk
// save. Every persisted row is created cleared and stamped with now.
// Duplicates that the user re-selected import normally and are counted
// separately. A storage failure propagates unchanged and means nothing was
// imported.
func (s *Service) ImportTransactions(ctx context.Context, accountID string, currency money.Currency, preview *ImportPreview, now time.Time) (*ImportResult, error) {
	result := &ImportResult{
		RowErrors: preview.Errors,
		Errors:    len(preview.Errors),
	}

	var toSave []model.Transaction
	for _, row := range preview.Rows {
		if !row.Selected {
			result.Skipped++
			continue
		}
		if row.Transaction.Amount.Currency().Code != currency.Code {
			return nil, fmt.Errorf("row %d: %w: %s vs account currency %s",
				row.Transaction.RowIndex, money.ErrCurrencyMismatch,
				row.Transaction.Amount.Currency().Code, currency.Code)
		}

		txn := model.Transaction{
			ID:           uuid.NewString(),
			AccountID:    accountID,
			Date:         row.Transaction.Date,
			Amount:       row.Transaction.Amount,
			Name:         row.Transaction.RawDescription,
			MerchantName: row.Transaction.Merchant,
			Category:     row.Category,
			Status:       model.StatusCleared,
			CreatedAt:    now,
		}
		txn.Hash = txn.GenerateHash()
		toSave = append(toSave, txn)

		result.Imported++
		if row.Match.IsDuplicate {
			result.Duplicates++
		}
	}

	if len(toSave) > 0 {
		if err := s.storage.SaveTransactions(ctx, toSave); err != nil {
			return nil, err
		}
	}

	slog.Info("Imported transactions",
		"account", accountID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"duplicates", result.Duplicates,
		"errors", result.Errors)

	return result, nil
}

// Import combines parse, classify, and selective commit in one call. When
// skipDuplicates is true, flagged duplicates are excluded from persistence
// and counted separately from successfully imported rows. Parse errors are
// surfaced in the result without aborting the rows that did parse.
func (s *Service) Import(ctx context.Context, csvText string, mapping ColumnMapping, accountID string, currency money.Currency, skipDuplicates bool, now time.Time) (*ImportResult, error) {
	preview, err := s.GeneratePreview(ctx, csvText, mapping, accountID, currency)
	if err != nil {
		return nil, err
	}

	for i := range preview.Rows {
		if preview.Rows[i].Match.IsDuplicate {
			preview.Rows[i].Selected = !skipDuplicates
		} else {
			preview.Rows[i].Selected = true
		}
	}

	result, err := s.ImportTransactions(ctx, accountID, currency, preview, now)
	if err != nil {
		return nil, err
	}
	if skipDuplicates {
		// Deselected duplicates are skipped as duplicates, not as user
		// deselections.
		result.Duplicates = preview.DuplicateCount()
		result.Skipped -= result.Duplicates
	}
	return result, nil
}

// AvailableFormats returns the fixed list of built-in presets for selection.
func (s *Service) AvailableFormats() []ColumnMapping {
	return AvailableFormats()
}
