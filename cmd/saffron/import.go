package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/ofx"
	"github.com/saffron-ledger/saffron/internal/plaid"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from a bank source",
	}

	cmd.AddCommand(importPlaidCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importPlaidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plaid",
		Short: "Import transactions from Plaid",
		Long: `Fetch transactions from the Plaid API for the configured access token
and store them. Transactions already imported are skipped by content hash.

Credentials come from the config file or environment:
  SAFFRON_PLAID_CLIENT_ID, SAFFRON_PLAID_SECRET, SAFFRON_PLAID_ACCESS_TOKEN`,
		RunE: runImportPlaid,
	}

	cmd.Flags().Int("days", 30, "How many days of history to fetch")

	return cmd
}

func runImportPlaid(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}
	if cfg.Environment == "" {
		cfg.Environment = "sandbox"
	}

	client, err := plaid.NewClient(cfg)
	if err != nil {
		return err
	}

	days, _ := cmd.Flags().GetInt("days")
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	slog.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	transactions, err := client.GetTransactions(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return storeImported(cmd, transactions)
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import transactions from an OFX/QFX file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportOFX,
	}
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open OFX file: %w", err)
	}
	defer file.Close()

	transactions, err := ofx.NewParser().ParseFile(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to parse OFX file: %w", err)
	}

	return storeImported(cmd, transactions)
}

func storeImported(cmd *cobra.Command, transactions []model.Transaction) error {
	ctx := cmd.Context()

	if len(transactions) == 0 {
		fmt.Println("No transactions found")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	if err := store.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Printf("Imported %d transactions\n", len(transactions))
	return nil
}
