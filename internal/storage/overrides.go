package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
)

// GetByMerchantID retrieves a user's override for a merchant identifier.
// Returns (nil, nil) when no override exists.
func (s *SQLiteStorage) GetByMerchantID(ctx context.Context, userID, merchantID string) (*model.Override, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(merchantID, "merchantID"); err != nil {
		return nil, err
	}

	key := merchantIDCacheKey(userID, merchantID)
	if override := s.getCachedOverride(key); override != nil {
		return override, nil
	}

	override, err := s.queryOverride(ctx, `
		SELECT user_id, merchant_id, normalized_name, category, source, use_count, updated_at
		FROM overrides
		WHERE user_id = ? AND merchant_id = ?
	`, userID, merchantID)
	if err != nil || override == nil {
		return nil, err
	}

	s.cacheOverride(key, override)
	return override, nil
}

// GetByName retrieves a user's override for a normalized merchant name.
// Returns (nil, nil) when no override exists.
func (s *SQLiteStorage) GetByName(ctx context.Context, userID, normalizedName string) (*model.Override, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(normalizedName, "normalizedName"); err != nil {
		return nil, err
	}

	key := nameCacheKey(userID, normalizedName)
	if override := s.getCachedOverride(key); override != nil {
		return override, nil
	}

	override, err := s.queryOverride(ctx, `
		SELECT user_id, merchant_id, normalized_name, category, source, use_count, updated_at
		FROM overrides
		WHERE user_id = ? AND normalized_name = ?
	`, userID, normalizedName)
	if err != nil || override == nil {
		return nil, err
	}

	s.cacheOverride(key, override)
	return override, nil
}

func (s *SQLiteStorage) queryOverride(ctx context.Context, query string, args ...any) (*model.Override, error) {
	var override model.Override
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&override.UserID,
		&override.MerchantID,
		&override.NormalizedName,
		&override.Category,
		&override.Source,
		&override.UseCount,
		&override.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Absence is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return &override, nil
}

// SaveOverride inserts or updates an override on its merchant-id key when
// present, otherwise on its normalized-name key.
func (s *SQLiteStorage) SaveOverride(ctx context.Context, override *model.Override) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOverride(override); err != nil {
		return err
	}

	if override.UpdatedAt.IsZero() {
		override.UpdatedAt = time.Now()
	}
	if override.Source == "" {
		override.Source = model.SourceManual
	}

	conflictTarget := `(user_id, merchant_id) WHERE merchant_id != ''`
	if override.MerchantID == "" {
		conflictTarget = `(user_id, normalized_name) WHERE normalized_name != ''`
	}

	query := fmt.Sprintf(`
		INSERT INTO overrides (user_id, merchant_id, normalized_name, category, source, use_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT %s DO UPDATE SET
			category = excluded.category,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, conflictTarget)

	_, err := s.db.ExecContext(ctx, query,
		override.UserID,
		override.MerchantID,
		override.NormalizedName,
		override.Category,
		override.Source,
		override.UseCount,
		override.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}

	s.invalidateOverrideCache()
	return nil
}

// DeleteOverride removes an override by merchant id or normalized name.
func (s *SQLiteStorage) DeleteOverride(ctx context.Context, userID, merchantID, normalizedName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if merchantID == "" && normalizedName == "" {
		return fmt.Errorf("a merchant id or a normalized name is required")
	}

	var result sql.Result
	var err error
	if merchantID != "" {
		result, err = s.db.ExecContext(ctx,
			`DELETE FROM overrides WHERE user_id = ? AND merchant_id = ?`, userID, merchantID)
	} else {
		result, err = s.db.ExecContext(ctx,
			`DELETE FROM overrides WHERE user_id = ? AND normalized_name = ?`, userID, normalizedName)
	}
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	s.invalidateOverrideCache()
	return nil
}

// GetOverridesByUser retrieves all of a user's overrides, most recently
// updated first.
func (s *SQLiteStorage) GetOverridesByUser(ctx context.Context, userID string) ([]model.Override, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, merchant_id, normalized_name, category, source, use_count, updated_at
		FROM overrides
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var overrides []model.Override
	for rows.Next() {
		var o model.Override
		if scanErr := rows.Scan(
			&o.UserID,
			&o.MerchantID,
			&o.NormalizedName,
			&o.Category,
			&o.Source,
			&o.UseCount,
			&o.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan override: %w", scanErr)
		}
		overrides = append(overrides, o)
	}

	return overrides, rows.Err()
}

// IncrementOverrideUseCount bumps the use counter after an override is
// applied during categorization.
func (s *SQLiteStorage) IncrementOverrideUseCount(ctx context.Context, override *model.Override) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOverride(override); err != nil {
		return err
	}

	var err error
	if override.MerchantID != "" {
		_, err = s.db.ExecContext(ctx,
			`UPDATE overrides SET use_count = use_count + 1 WHERE user_id = ? AND merchant_id = ?`,
			override.UserID, override.MerchantID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE overrides SET use_count = use_count + 1 WHERE user_id = ? AND normalized_name = ?`,
			override.UserID, override.NormalizedName)
	}
	if err != nil {
		return fmt.Errorf("failed to increment override use count: %w", err)
	}

	s.invalidateOverrideCache()
	return nil
}
