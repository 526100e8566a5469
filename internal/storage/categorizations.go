package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/service"
)

// SaveCategorization inserts or replaces the categorization for a
// transaction.
func (s *SQLiteStorage) SaveCategorization(ctx context.Context, record *model.CategorizationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategorization(record); err != nil {
		return err
	}

	if record.CategorizedAt.IsZero() {
		record.CategorizedAt = time.Now()
	}
	if record.Status == "" {
		record.Status = model.StatusAuto
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categorizations
			(transaction_id, category, direction, confidence, reason, status, categorized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			category = excluded.category,
			direction = excluded.direction,
			confidence = excluded.confidence,
			reason = excluded.reason,
			status = excluded.status,
			categorized_at = excluded.categorized_at
	`,
		record.TransactionID,
		record.Category,
		string(record.Direction),
		record.Confidence,
		record.Reason,
		string(record.Status),
		record.CategorizedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save categorization: %w", err)
	}

	return nil
}

// GetCategorized returns saved categorizations joined with their
// transactions, filtered by date range and maximum confidence, newest first.
func (s *SQLiteStorage) GetCategorized(ctx context.Context, filter service.CategorizedFilter) ([]service.CategorizedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT t.id, t.hash, t.date, t.name, t.merchant_name, t.merchant_id,
			t.account_id, t.amount, t.upstream_category, t.transaction_code,
			c.category, c.direction, c.confidence, c.reason, c.status, c.categorized_at
		FROM categorizations c
		JOIN transactions t ON t.id = c.transaction_id
		WHERE 1=1`
	args := []any{}

	if filter.StartDate != nil {
		query += ` AND t.date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND t.date <= ?`
		args = append(args, *filter.EndDate)
	}
	if filter.MaxConfidence != nil {
		query += ` AND c.confidence < ?`
		args = append(args, *filter.MaxConfidence)
	}

	query += ` ORDER BY t.date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categorizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []service.CategorizedTransaction
	for rows.Next() {
		var ct service.CategorizedTransaction
		var direction, status string
		if scanErr := rows.Scan(
			&ct.Transaction.ID,
			&ct.Transaction.Hash,
			&ct.Transaction.Date,
			&ct.Transaction.Name,
			&ct.Transaction.MerchantName,
			&ct.Transaction.MerchantID,
			&ct.Transaction.AccountID,
			&ct.Transaction.Amount,
			&ct.Transaction.UpstreamCategory,
			&ct.Transaction.TransactionCode,
			&ct.Record.Category,
			&direction,
			&ct.Record.Confidence,
			&ct.Record.Reason,
			&status,
			&ct.Record.CategorizedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan categorization: %w", scanErr)
		}
		ct.Record.TransactionID = ct.Transaction.ID
		ct.Record.Direction = model.TransactionDirection(direction)
		ct.Record.Status = model.CategorizationStatus(status)
		results = append(results, ct)
	}

	return results, rows.Err()
}
