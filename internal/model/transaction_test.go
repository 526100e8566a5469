package model

import (
	"testing"
	"time"
)

func TestTransaction_Direction(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   TransactionDirection
	}{
		{name: "negative amount is income", amount: -2500, want: DirectionIncome},
		{name: "positive amount is expense", amount: 4.75, want: DirectionExpense},
		{name: "zero amount is expense", amount: 0, want: DirectionExpense},
		{name: "small negative is income", amount: -0.01, want: DirectionIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{Amount: tt.amount}
			if got := txn.Direction(); got != tt.want {
				t.Errorf("Direction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransaction_DisplayName(t *testing.T) {
	txn := Transaction{Name: "POS DEBIT 4412 STARBUCKS", MerchantName: "Starbucks"}
	if got := txn.DisplayName(); got != "Starbucks" {
		t.Errorf("DisplayName() = %q, want merchant name", got)
	}

	txn.MerchantName = ""
	if got := txn.DisplayName(); got != "POS DEBIT 4412 STARBUCKS" {
		t.Errorf("DisplayName() = %q, want raw name", got)
	}
}

func TestTransaction_GenerateHash(t *testing.T) {
	date := time.Date(2026, 2, 1, 15, 30, 0, 0, time.UTC)
	txn := Transaction{
		Date:         date,
		MerchantName: "Starbucks",
		Amount:       4.75,
		AccountID:    "acc1",
	}

	hash := txn.GenerateHash()
	if hash == "" {
		t.Fatal("GenerateHash() returned empty string")
	}
	if hash != txn.GenerateHash() {
		t.Error("GenerateHash() is not deterministic")
	}

	// Time of day does not change the hash; the calendar date does.
	sameDay := txn
	sameDay.Date = date.Add(3 * time.Hour)
	if sameDay.GenerateHash() != hash {
		t.Error("hash changed with time of day on the same date")
	}

	nextDay := txn
	nextDay.Date = date.AddDate(0, 0, 1)
	if nextDay.GenerateHash() == hash {
		t.Error("hash unchanged across dates")
	}

	differentAmount := txn
	differentAmount.Amount = 5.75
	if differentAmount.GenerateHash() == hash {
		t.Error("hash unchanged across amounts")
	}

	differentAccount := txn
	differentAccount.AccountID = "acc2"
	if differentAccount.GenerateHash() == hash {
		t.Error("hash unchanged across accounts")
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, category := range Categories() {
		if !IsValidCategory(category) {
			t.Errorf("IsValidCategory(%q) = false for listed category", category)
		}
	}
	if IsValidCategory("Yachts") {
		t.Error("IsValidCategory accepted an unknown category")
	}
	if IsValidCategory("") {
		t.Error("IsValidCategory accepted the empty string")
	}
}
