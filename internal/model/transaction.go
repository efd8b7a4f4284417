// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/centavo-dev/centavo/internal/money"
)

// TransactionStatus is the lifecycle state of a persisted transaction.
type TransactionStatus string

// Transaction status constants.
const (
	StatusPending    TransactionStatus = "PENDING"
	StatusCleared    TransactionStatus = "CLEARED"
	StatusReconciled TransactionStatus = "RECONCILED"
	StatusVoid       TransactionStatus = "VOID"
)

// Transaction represents a single persisted financial transaction.
// Amount follows the system-wide sign convention: negative for expenses,
// positive for income.
type Transaction struct {
	Date         time.Time
	CreatedAt    time.Time
	ID           string
	AccountID    string
	Name         string // Raw statement description
	MerchantName string // Normalized merchant name
	Category     string
	Status       TransactionStatus
	TransferID   string // Links the two legs of a transfer pair
	Hash         string
	Amount       money.Money
}

// GenerateHash creates a stable hash for storage-level duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%d:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.MinorUnits(),
		t.Amount.Currency().Code,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// NewTransferPair builds the two linked legs of an account-to-account
// transfer, verifying the net-zero invariant before either leg exists.
func NewTransferPair(fromAccount, toAccount string, outgoing, incoming money.Money, date time.Time, transferID string) (Transaction, Transaction, error) {
	if err := money.ValidateTransfer(outgoing, incoming); err != nil {
		return Transaction{}, Transaction{}, fmt.Errorf("invalid transfer pair: %w", err)
	}

	from := Transaction{
		Date:       date,
		AccountID:  fromAccount,
		Amount:     outgoing,
		Status:     StatusCleared,
		TransferID: transferID,
	}
	to := Transaction{
		Date:       date,
		AccountID:  toAccount,
		Amount:     incoming,
		Status:     StatusCleared,
		TransferID: transferID,
	}
	return from, to, nil
}
