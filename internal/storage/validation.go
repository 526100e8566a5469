package storage

import (
	"context"
	"fmt"

	"github.com/saffron-ledger/saffron/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateOverride(override *model.Override) error {
	if override == nil {
		return fmt.Errorf("override cannot be nil")
	}
	if override.UserID == "" {
		return fmt.Errorf("override user id cannot be empty")
	}
	if override.MerchantID == "" && override.NormalizedName == "" {
		return fmt.Errorf("override requires a merchant id or a normalized name")
	}
	if override.Category == "" {
		return fmt.Errorf("override category cannot be empty")
	}
	if !model.IsValidCategory(override.Category) {
		return fmt.Errorf("unknown category %q", override.Category)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("no transactions to save")
	}
	for i, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("transaction %d has no id", i)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction %s has no date", txn.ID)
		}
		if txn.Name == "" && txn.MerchantName == "" {
			return fmt.Errorf("transaction %s has no description", txn.ID)
		}
	}
	return nil
}

func validateCategorization(record *model.CategorizationRecord) error {
	if record == nil {
		return fmt.Errorf("categorization cannot be nil")
	}
	if record.TransactionID == "" {
		return fmt.Errorf("categorization transaction id cannot be empty")
	}
	if record.Category == "" {
		return fmt.Errorf("categorization category cannot be empty")
	}
	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", record.Confidence)
	}
	return nil
}
