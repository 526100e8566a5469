// Package engine implements the transaction auto-categorization pipeline.
//
// Control flows strictly downward through the stages: normalization, user
// override lookup, upstream category mapping, the income classifier for
// money received, then the expense-only hard rules and weighted keyword
// scoring, ending at a terminal fallback. Every stage that matches
// short-circuits the rest; every call returns a result.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/normalize"
	"github.com/saffron-ledger/saffron/internal/rules"
	"github.com/saffron-ledger/saffron/internal/service"
	"github.com/saffron-ledger/saffron/internal/taxonomy"
)

// Categorizer runs transactions through the categorization pipeline. It holds
// no mutable state, so one Categorizer may be shared across goroutines; the
// override store's concurrency safety is the caller's responsibility.
type Categorizer struct {
	overrides service.OverrideStore
	scorer    *rules.Scorer
	logger    *slog.Logger
}

// New creates a categorizer over the given override store and keyword scorer.
func New(overrides service.OverrideStore, scorer *rules.Scorer) *Categorizer {
	return &Categorizer{
		overrides: overrides,
		scorer:    scorer,
		logger:    slog.Default().With("component", "engine"),
	}
}

// useCounter is implemented by override stores that track how often each
// override is applied.
type useCounter interface {
	IncrementOverrideUseCount(ctx context.Context, override *model.Override) error
}

// recordOverrideUse bumps the applied override's use counter when the store
// supports it. Bookkeeping only; a failure is logged, not propagated.
func (c *Categorizer) recordOverrideUse(ctx context.Context, override *model.Override) {
	counter, ok := c.overrides.(useCounter)
	if !ok {
		return
	}
	if err := counter.IncrementOverrideUseCount(ctx, override); err != nil {
		c.logger.Warn("Failed to record override use",
			"merchant_id", override.MerchantID,
			"normalized_name", override.NormalizedName,
			"error", err)
	}
}

// Categorize assigns a budget category to a single transaction. The only
// error source is the override store: a store failure is fatal and propagates
// to the caller. For a healthy store the function is total - every input
// yields a result with a non-empty category and confidence in [0,1].
func (c *Categorizer) Categorize(ctx context.Context, userID string, txn model.Transaction) (model.Categorization, error) {
	direction := txn.Direction()
	normalized := normalize.Normalize(txn.DisplayName())

	// Stage 1: user overrides beat everything.
	if txn.MerchantID != "" {
		override, err := c.overrides.GetByMerchantID(ctx, userID, txn.MerchantID)
		if err != nil {
			return model.Categorization{}, fmt.Errorf("override lookup by merchant id: %w", err)
		}
		if override != nil {
			c.recordOverrideUse(ctx, override)
			return model.Categorization{
				Category:   override.Category,
				Direction:  direction,
				Confidence: 1.0,
				Reason:     model.ReasonOverrideMerchantID,
			}, nil
		}
	}
	if normalized != "" {
		override, err := c.overrides.GetByName(ctx, userID, normalized)
		if err != nil {
			return model.Categorization{}, fmt.Errorf("override lookup by name: %w", err)
		}
		if override != nil {
			c.recordOverrideUse(ctx, override)
			return model.Categorization{
				Category:   override.Category,
				Direction:  direction,
				Confidence: 0.95,
				Reason:     model.ReasonOverrideName,
			}, nil
		}
	}

	// Stage 2: upstream category hint.
	if txn.UpstreamCategory != "" {
		if category, ok := taxonomy.MapUpstreamCategory(txn.UpstreamCategory); ok {
			return model.Categorization{
				Category:   category,
				Direction:  direction,
				Confidence: 0.9,
				Reason:     model.ReasonUpstreamPrefix + txn.UpstreamCategory,
			}, nil
		}
	}

	// Stage 3: income is terminal - money received never reaches the
	// expense-only rules below.
	if direction == model.DirectionIncome {
		match := rules.ClassifyIncome(normalized)
		return model.Categorization{
			Category:   match.Category,
			Direction:  direction,
			Confidence: match.Confidence,
			Reason:     match.Reason,
		}, nil
	}

	// Stage 4: hard refund/transfer rules.
	if match := rules.MatchHardRule(normalized, txn.TransactionCode); match != nil {
		return model.Categorization{
			Category:   match.Category,
			Direction:  direction,
			Confidence: match.Confidence,
			Reason:     match.Reason,
		}, nil
	}

	// Stage 5: weighted keyword scoring.
	if category, confidence, ok := c.scorer.Best(normalized); ok {
		return model.Categorization{
			Category:   category,
			Direction:  direction,
			Confidence: confidence,
			Reason:     model.ReasonKeywordScoring,
		}, nil
	}

	// Terminal fallback guarantees totality.
	c.logger.Debug("No stage matched, using fallback",
		"merchant", txn.DisplayName(),
		"normalized", normalized)
	return model.Categorization{
		Category:   model.CategoryOtherExpenses,
		Direction:  direction,
		Confidence: 0.4,
		Reason:     model.ReasonFallback,
	}, nil
}

// CategorizeBatch categorizes transactions in order, invoking onProgress
// after each one when provided. Processing stops on context cancellation or
// the first override-store error.
func (c *Categorizer) CategorizeBatch(ctx context.Context, userID string, txns []model.Transaction, onProgress func(done int)) ([]model.Categorization, error) {
	results := make([]model.Categorization, 0, len(txns))

	for i, txn := range txns {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := c.Categorize(ctx, userID, txn)
		if err != nil {
			return nil, fmt.Errorf("failed to categorize transaction %s: %w", txn.ID, err)
		}
		results = append(results, result)

		if onProgress != nil {
			onProgress(i + 1)
		}
	}

	return results, nil
}
