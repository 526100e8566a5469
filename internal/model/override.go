package model

import "time"

// OverrideSource indicates how an override rule was created.
type OverrideSource string

const (
	// SourceManual indicates the override was created via CLI command.
	SourceManual OverrideSource = "MANUAL"
	// SourceReview indicates the override was created from the review UI.
	SourceReview OverrideSource = "REVIEW"
)

// Override represents a user-supplied correction for a merchant, persisted
// for reuse. Exactly one of MerchantID or NormalizedName identifies the
// merchant; NormalizedName must already be in normalized form so lookups
// stay stable across imports.
type Override struct {
	UpdatedAt      time.Time
	UserID         string
	MerchantID     string
	NormalizedName string
	Category       string
	Source         OverrideSource
	UseCount       int
}
