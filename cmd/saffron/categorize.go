package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/engine"
	"github.com/saffron-ledger/saffron/internal/model"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize transactions",
		Long: `Categorize a single transaction from flags, or run the pipeline over
every imported transaction that has no saved categorization yet.

Examples:
  saffron categorize --merchant "STARBUCKS STORE #123" --amount 4.75
  saffron categorize --merchant "ACME PAYROLL" --amount=-2500
  saffron categorize --all
  saffron categorize --all --from 2026-01-01`,
		RunE: runCategorize,
	}

	cmd.Flags().String("merchant", "", "Merchant name or raw description")
	cmd.Flags().String("merchant-id", "", "Stable merchant identifier from the aggregator")
	cmd.Flags().Float64("amount", 0, "Amount (negative = money received)")
	cmd.Flags().String("code", "", "Transaction code (e.g. REFUND)")
	cmd.Flags().String("upstream", "", "Upstream category hint (e.g. FOOD_AND_DRINK_FAST_FOOD)")
	cmd.Flags().Bool("all", false, "Categorize all stored uncategorized transactions")
	cmd.Flags().String("from", "", "Only categorize stored transactions on or after this date (format: 2006-01-02)")
	cmd.Flags().Float64("review-threshold", 0.6, "Confidence below which results are counted for review")

	_ = viper.BindPFlag("review.threshold", cmd.Flags().Lookup("review-threshold"))

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	categorizer, err := initCategorizer(store)
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	if !all {
		return categorizeOne(cmd, categorizer)
	}

	var fromDate *time.Time
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		parsed, parseErr := time.Parse("2006-01-02", from)
		if parseErr != nil {
			return fmt.Errorf("invalid --from date %q: %w", from, parseErr)
		}
		fromDate = &parsed
	}

	pipeline := engine.NewPipeline(store, categorizer)

	var bar *progressbar.ProgressBar
	stats, err := pipeline.Run(ctx, currentUser(), fromDate, viper.GetFloat64("review.threshold"), func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "categorizing")
		}
		_ = bar.Set(done)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nCategorized %d transactions (%d need review)\n", stats.Total, stats.LowConfidence)
	for reason, count := range stats.ByReason {
		fmt.Printf("  %-26s %d\n", reason, count)
	}

	return nil
}

func categorizeOne(cmd *cobra.Command, categorizer *engine.Categorizer) error {
	ctx := cmd.Context()

	merchant, _ := cmd.Flags().GetString("merchant")
	merchantID, _ := cmd.Flags().GetString("merchant-id")
	amount, _ := cmd.Flags().GetFloat64("amount")
	code, _ := cmd.Flags().GetString("code")
	upstream, _ := cmd.Flags().GetString("upstream")

	if merchant == "" && merchantID == "" {
		return fmt.Errorf("a --merchant name or --merchant-id is required")
	}

	txn := model.Transaction{
		MerchantName:     merchant,
		MerchantID:       merchantID,
		Amount:           amount,
		TransactionCode:  code,
		UpstreamCategory: upstream,
	}

	result, err := categorizer.Categorize(ctx, currentUser(), txn)
	if err != nil {
		return err
	}

	fmt.Printf("Category:   %s\n", result.Category)
	fmt.Printf("Direction:  %s\n", result.Direction)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Reason:     %s\n", result.Reason)

	return nil
}
