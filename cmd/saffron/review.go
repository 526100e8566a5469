package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/service"
	"github.com/saffron-ledger/saffron/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review low-confidence categorizations interactively",
		Long: `Step through categorizations the engine was unsure about. Accepting or
correcting a transaction saves an override, so the same merchant is
categorized correctly from then on.`,
		RunE: runReview,
	}

	cmd.Flags().Float64("threshold", 0.6, "Review categorizations below this confidence")
	cmd.Flags().Int("limit", 100, "Maximum number of transactions to review")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if cmd.Flags().Changed("threshold") {
		viper.Set("review.threshold", threshold)
	} else if viper.IsSet("review.threshold") {
		threshold = viper.GetFloat64("review.threshold")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	items, err := store.GetCategorized(ctx, service.CategorizedFilter{
		MaxConfidence: &threshold,
		Limit:         limit,
	})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Nothing to review")
		return nil
	}

	model := tui.NewReviewModel(store, currentUser(), items)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("review session failed: %w", err)
	}

	return nil
}
