// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"time"
)

// Transaction represents a single financial transaction as read from the
// repository. Amount follows ledger sign conventions: negative for expenses,
// positive for income.
type Transaction struct {
	Date         time.Time
	ID           string
	UserID       string
	Name         string // Raw transaction description
	MerchantName string // Cleaned merchant name
	Category     string
	AccountID    string
	Hash         string
	Amount       float64
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// AbsAmount returns the unsigned transaction amount.
func (t *Transaction) AbsAmount() float64 {
	return math.Abs(t.Amount)
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
