// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/centavo-dev/centavo/internal/model"
)

// Storage defines the contract for the persistence layer.
type Storage interface {
	// SaveTransactions persists all transactions in a single atomic write.
	// A failed call means nothing was imported.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	// GetTransactionsByAccount returns every persisted transaction for the
	// account, used for duplicate comparison during import.
	GetTransactionsByAccount(ctx context.Context, accountID string) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetTransactionCount(ctx context.Context) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
