package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
)

// SaveTransactions stores a batch of transactions, skipping duplicates
// detected via the transaction hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, hash, date, name, merchant_name, merchant_id, account_id, amount, upstream_category, transaction_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		if _, execErr := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Date,
			txn.Name,
			txn.MerchantName,
			txn.MerchantID,
			txn.AccountID,
			txn.Amount,
			txn.UpstreamCategory,
			txn.TransactionCode,
		); execErr != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, execErr)
		}
	}

	return tx.Commit()
}

// GetTransactionByID retrieves a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, date, name, merchant_name, merchant_id, account_id, amount, upstream_category, transaction_code
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactionsToCategorize returns stored transactions without a saved
// categorization, oldest first. A nil fromDate means all dates.
func (s *SQLiteStorage) GetTransactionsToCategorize(ctx context.Context, fromDate *time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT t.id, t.hash, t.date, t.name, t.merchant_name, t.merchant_id,
			t.account_id, t.amount, t.upstream_category, t.transaction_code
		FROM transactions t
		LEFT JOIN categorizations c ON c.transaction_id = t.id
		WHERE c.transaction_id IS NULL`
	args := []any{}
	if fromDate != nil {
		query += ` AND t.date >= ?`
		args = append(args, *fromDate)
	}
	query += ` ORDER BY t.date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}

	return transactions, rows.Err()
}

// scannable covers both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (*model.Transaction, error) {
	var txn model.Transaction
	var merchantName, merchantID, accountID, upstream, code sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Date,
		&txn.Name,
		&merchantName,
		&merchantID,
		&accountID,
		&txn.Amount,
		&upstream,
		&code,
	)
	if err != nil {
		return nil, err
	}

	txn.MerchantName = merchantName.String
	txn.MerchantID = merchantID.String
	txn.AccountID = accountID.String
	txn.UpstreamCategory = upstream.String
	txn.TransactionCode = code.String
	return &txn, nil
}
