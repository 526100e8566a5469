package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/normalize"
)

func overridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage user category overrides",
	}

	cmd.AddCommand(overridesListCmd())
	cmd.AddCommand(overridesSetCmd())
	cmd.AddCommand(overridesDeleteCmd())

	return cmd
}

func overridesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved overrides for the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeStore(store)

			overrides, err := store.GetOverridesByUser(ctx, currentUser())
			if err != nil {
				return err
			}

			if len(overrides) == 0 {
				fmt.Println("No overrides saved")
				return nil
			}

			fmt.Printf("%-24s %-24s %-18s %-8s %s\n", "MERCHANT ID", "NAME", "CATEGORY", "SOURCE", "USES")
			for _, o := range overrides {
				fmt.Printf("%-24s %-24s %-18s %-8s %d\n",
					o.MerchantID, o.NormalizedName, o.Category, o.Source, o.UseCount)
			}
			return nil
		},
	}
}

func overridesSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category>",
		Short: "Save an override mapping a merchant to a category",
		Long: `Save an override so every future transaction from the merchant gets the
given category with full confidence.

Match on the aggregator's stable merchant ID when you have one, otherwise on
the merchant name (normalized before storing, so any formatting of the same
merchant matches):

  saffron overrides set Food --merchant "STARBUCKS STORE #123"
  saffron overrides set Subscriptions --merchant-id mrch_nflx01`,
		Args: cobra.ExactArgs(1),
		RunE: runOverridesSet,
	}

	cmd.Flags().String("merchant", "", "Merchant name to match (normalized before storing)")
	cmd.Flags().String("merchant-id", "", "Stable merchant identifier to match")

	return cmd
}

func runOverridesSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := args[0]
	if !model.IsValidCategory(category) {
		return fmt.Errorf("unknown category %q (see: saffron rules list)", category)
	}

	merchant, _ := cmd.Flags().GetString("merchant")
	merchantID, _ := cmd.Flags().GetString("merchant-id")
	if merchant == "" && merchantID == "" {
		return fmt.Errorf("a --merchant name or --merchant-id is required")
	}

	override := &model.Override{
		UpdatedAt:  time.Now(),
		UserID:     currentUser(),
		MerchantID: merchantID,
		Category:   category,
		Source:     model.SourceManual,
	}
	if merchant != "" {
		override.NormalizedName = normalize.Normalize(merchant)
		if override.NormalizedName == "" {
			return fmt.Errorf("merchant name %q normalizes to nothing", merchant)
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	if err := store.SaveOverride(ctx, override); err != nil {
		return err
	}

	switch {
	case merchantID != "":
		fmt.Printf("Override saved: merchant ID %s -> %s\n", merchantID, category)
	default:
		fmt.Printf("Override saved: %q -> %s\n", override.NormalizedName, category)
	}
	return nil
}

func overridesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an override",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			merchant, _ := cmd.Flags().GetString("merchant")
			merchantID, _ := cmd.Flags().GetString("merchant-id")
			if merchant == "" && merchantID == "" {
				return fmt.Errorf("a --merchant name or --merchant-id is required")
			}

			normalizedName := ""
			if merchant != "" {
				normalizedName = normalize.Normalize(merchant)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeStore(store)

			if err := store.DeleteOverride(ctx, currentUser(), merchantID, normalizedName); err != nil {
				return err
			}

			fmt.Printf("Override deleted: %s\n", strings.TrimSpace(merchantID+" "+normalizedName))
			return nil
		},
	}

	cmd.Flags().String("merchant", "", "Merchant name of the override to delete")
	cmd.Flags().String("merchant-id", "", "Merchant identifier of the override to delete")

	return cmd
}

func closeStore(store interface{ Close() error }) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}
