// Package model defines the core domain models used throughout the application.
package model

import "time"

// Reason tags identifying which pipeline stage produced a categorization.
// They are diagnostic only and never drive control flow.
const (
	ReasonOverrideMerchantID = "user_override_merchant_id"
	ReasonOverrideName       = "user_override_name"
	ReasonIncomeSalary       = "income_keyword_salary"
	ReasonIncomeDefault      = "income_default"
	ReasonTransactionCode    = "transaction_code"
	ReasonKeywordRefund      = "keyword_refund"
	ReasonKeywordTransfer    = "keyword_transfer"
	ReasonKeywordScoring     = "keyword_scoring"
	ReasonFallback           = "fallback"
	// ReasonUpstreamPrefix prefixes the raw upstream category string,
	// e.g. "plaid:FOOD_AND_DRINK_FAST_FOOD".
	ReasonUpstreamPrefix = "plaid:"
)

// CategorizationStatus indicates how a saved categorization was produced.
type CategorizationStatus string

// Categorization status constants.
const (
	StatusAuto          CategorizationStatus = "AUTO"
	StatusUserConfirmed CategorizationStatus = "USER_CONFIRMED"
)

// Categorization is the result of running a transaction through the engine.
// Category is always non-empty and Confidence is always within [0,1].
type Categorization struct {
	Category   string
	Direction  TransactionDirection
	Confidence float64
	Reason     string
}

// CategorizationRecord is a categorization persisted alongside its transaction.
type CategorizationRecord struct {
	CategorizedAt time.Time
	TransactionID string
	Status        CategorizationStatus
	Categorization
}
