package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionDirection indicates whether money was received or spent.
type TransactionDirection string

const (
	// DirectionIncome represents money received (negative amounts).
	DirectionIncome TransactionDirection = "income"
	// DirectionExpense represents money spent (zero or positive amounts).
	DirectionExpense TransactionDirection = "expense"
)

// Transaction represents a single financial transaction from any source.
type Transaction struct {
	Date         time.Time
	ID           string
	Name         string // Raw transaction description
	MerchantName string // Cleaned merchant name from the source, if available
	MerchantID   string // Stable merchant identifier from the aggregator, if available
	AccountID    string
	Hash         string
	Amount       float64 // Negative = money received, positive = money spent

	// Optional metadata that may be available depending on source
	UpstreamCategory string // Hierarchical category hint (e.g. FOOD_AND_DRINK_FAST_FOOD)
	TransactionCode  string // Operation code (e.g. REFUND, REVERSAL, DEBIT)
}

// Direction derives the transaction direction from the sign of the amount.
// A missing amount defaults to zero and is treated as an expense.
func (t *Transaction) Direction() TransactionDirection {
	if t.Amount < 0 {
		return DirectionIncome
	}
	return DirectionExpense
}

// DisplayName returns the merchant name, falling back to the raw description.
func (t *Transaction) DisplayName() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.DisplayName(),
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
