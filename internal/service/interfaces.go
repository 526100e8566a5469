// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
)

// OverrideStore is the capability the engine consumes to look up user
// corrections. Both lookups return (nil, nil) when no override exists;
// absence is not an error. A store error is fatal to the categorization
// call and propagates to the caller.
type OverrideStore interface {
	GetByMerchantID(ctx context.Context, userID, merchantID string) (*model.Override, error)
	GetByName(ctx context.Context, userID, normalizedName string) (*model.Override, error)
}

// CategorizedTransaction joins a transaction with its saved categorization.
type CategorizedTransaction struct {
	Transaction model.Transaction
	Record      model.CategorizationRecord
}

// CategorizedFilter selects saved categorizations.
type CategorizedFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	MaxConfidence *float64
	Limit         int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	OverrideStore

	// Override management
	SaveOverride(ctx context.Context, override *model.Override) error
	DeleteOverride(ctx context.Context, userID, merchantID, normalizedName string) error
	GetOverridesByUser(ctx context.Context, userID string) ([]model.Override, error)
	IncrementOverrideUseCount(ctx context.Context, override *model.Override) error

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsToCategorize(ctx context.Context, fromDate *time.Time) ([]model.Transaction, error)

	// Categorization results
	SaveCategorization(ctx context.Context, record *model.CategorizationRecord) error
	GetCategorized(ctx context.Context, filter CategorizedFilter) ([]CategorizedTransaction, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations against flaky
// upstream APIs.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
