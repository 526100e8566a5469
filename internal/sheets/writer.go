package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/saffron-ledger/saffron/internal/service"
)

// Writer exports categorized transactions to a spreadsheet.
type Writer struct {
	svc    *sheets.Service
	logger *slog.Logger
	config Config
}

// NewWriter creates a writer, authenticating with either a service account
// file or an OAuth2 refresh token depending on the configuration.
func NewWriter(ctx context.Context, cfg Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets configuration: %w", err)
	}

	var opts []option.ClientOption
	if cfg.ServiceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
		opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		opts = append(opts, option.WithTokenSource(tokenSource))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		svc:    svc,
		config: cfg,
		logger: slog.Default().With("component", "sheets"),
	}, nil
}

var header = []any{"Date", "Merchant", "Amount", "Direction", "Category", "Confidence", "Reason", "Status"}

// Export clears the configured sheet and writes one row per categorized
// transaction, header first.
func (w *Writer) Export(ctx context.Context, results []service.CategorizedTransaction) error {
	if len(results) == 0 {
		return fmt.Errorf("no categorized transactions to export")
	}

	if err := w.ensureSheet(ctx); err != nil {
		return err
	}

	clearRange := fmt.Sprintf("%s!A:Z", w.config.SheetName)
	if _, err := w.svc.Spreadsheets.Values.Clear(w.config.SpreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := make([][]any, 0, len(results)+1)
	values = append(values, header)
	for _, ct := range results {
		values = append(values, []any{
			ct.Transaction.Date.Format("2006-01-02"),
			ct.Transaction.DisplayName(),
			ct.Transaction.Amount,
			string(ct.Record.Direction),
			ct.Record.Category,
			ct.Record.Confidence,
			ct.Record.Reason,
			string(ct.Record.Status),
		})
	}

	writeRange := fmt.Sprintf("%s!A1", w.config.SheetName)
	_, err := w.svc.Spreadsheets.Values.Update(w.config.SpreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	w.logger.Info("Exported categorized transactions",
		"rows", len(results),
		"spreadsheet_id", w.config.SpreadsheetID,
		"sheet", w.config.SheetName)

	return nil
}

// ensureSheet adds the configured tab if the spreadsheet doesn't have it yet.
func (w *Writer) ensureSheet(ctx context.Context) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == w.config.SheetName {
			return nil
		}
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(w.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: w.config.SheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", w.config.SheetName, err)
	}

	return nil
}
