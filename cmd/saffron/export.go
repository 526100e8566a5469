package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/config"
	"github.com/saffron-ledger/saffron/internal/service"
	"github.com/saffron-ledger/saffron/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export categorized transactions to Google Sheets",
		Long: `Write categorized transactions to the configured Google Sheets
spreadsheet. Authentication uses either OAuth2 refresh-token credentials or
a service account file:

  sheets:
    spreadsheet_id: 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms
    service_account: ~/.config/saffron/service-account.json`,
		RunE: runExport,
	}

	cmd.Flags().String("from", "", "Only export transactions on or after this date (format: 2006-01-02)")
	cmd.Flags().String("to", "", "Only export transactions on or before this date (format: 2006-01-02)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := sheets.DefaultConfig()
	cfg.ClientID = viper.GetString("sheets.client_id")
	cfg.ClientSecret = viper.GetString("sheets.client_secret")
	cfg.RefreshToken = viper.GetString("sheets.refresh_token")
	cfg.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if path := viper.GetString("sheets.service_account"); path != "" {
		cfg.ServiceAccountPath = config.ExpandPath(path)
	}
	if name := viper.GetString("sheets.sheet_name"); name != "" {
		cfg.SheetName = name
	}

	var filter service.CategorizedFilter
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		filter.StartDate = &parsed
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		filter.EndDate = &parsed
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	results, err := store.GetCategorized(ctx, filter)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No categorized transactions to export")
		return nil
	}

	writer, err := sheets.NewWriter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Export(ctx, results); err != nil {
		return fmt.Errorf("failed to export to sheets: %w", err)
	}

	fmt.Printf("Exported %d transactions to sheet %q\n", len(results), cfg.SheetName)
	return nil
}
