package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/service"
)

// Pipeline categorizes stored transactions and persists the results.
type Pipeline struct {
	storage     service.Storage
	categorizer *Categorizer
}

// Stats summarizes a pipeline run.
type Stats struct {
	ByReason      map[string]int
	Total         int
	LowConfidence int
	Duration      time.Duration
}

// NewPipeline creates a pipeline over the given storage. The categorizer
// uses the same storage as its override store.
func NewPipeline(storage service.Storage, categorizer *Categorizer) *Pipeline {
	return &Pipeline{
		storage:     storage,
		categorizer: categorizer,
	}
}

// Run categorizes every uncategorized stored transaction on or after
// fromDate (nil means all), saving a categorization record per transaction.
// reviewThreshold counts results below it as needing review.
func (p *Pipeline) Run(ctx context.Context, userID string, fromDate *time.Time, reviewThreshold float64, onProgress func(done, total int)) (*Stats, error) {
	start := time.Now()

	txns, err := p.storage.GetTransactionsToCategorize(ctx, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	stats := &Stats{ByReason: make(map[string]int)}
	if len(txns) == 0 {
		slog.Info("No transactions to categorize")
		return stats, nil
	}

	slog.Info("Categorizing transactions", "count", len(txns), "user_id", userID)

	for i, txn := range txns {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, catErr := p.categorizer.Categorize(ctx, userID, txn)
		if catErr != nil {
			return nil, fmt.Errorf("failed to categorize transaction %s: %w", txn.ID, catErr)
		}

		record := &model.CategorizationRecord{
			CategorizedAt:  time.Now(),
			TransactionID:  txn.ID,
			Status:         model.StatusAuto,
			Categorization: result,
		}
		if saveErr := p.storage.SaveCategorization(ctx, record); saveErr != nil {
			return nil, fmt.Errorf("failed to save categorization for %s: %w", txn.ID, saveErr)
		}

		stats.Total++
		stats.ByReason[reasonKey(result.Reason)]++
		if result.Confidence < reviewThreshold {
			stats.LowConfidence++
		}

		if onProgress != nil {
			onProgress(i+1, len(txns))
		}
	}

	stats.Duration = time.Since(start)
	slog.Info("Categorization complete",
		"total", stats.Total,
		"low_confidence", stats.LowConfidence,
		"duration", stats.Duration)

	return stats, nil
}

// reasonKey collapses upstream-mapper reasons, which embed the raw upstream
// string, into a single stats bucket.
func reasonKey(reason string) string {
	if len(reason) >= len(model.ReasonUpstreamPrefix) &&
		reason[:len(model.ReasonUpstreamPrefix)] == model.ReasonUpstreamPrefix {
		return "upstream_mapping"
	}
	return reason
}
