package rules

import (
	"testing"

	"github.com/saffron-ledger/saffron/internal/model"
)

func TestClassifyIncome(t *testing.T) {
	tests := []struct {
		name           string
		normalizedName string
		wantCategory   string
		wantConfidence float64
		wantReason     string
	}{
		{
			name:           "payroll deposit",
			normalizedName: "acme payroll direct deposit",
			wantCategory:   model.CategorySalary,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "known payroll processor",
			normalizedName: "adp wage pay",
			wantCategory:   model.CategorySalary,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "generic deposit counts as salary",
			normalizedName: "mobile deposit 4412",
			wantCategory:   model.CategorySalary,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "no salary indicators",
			normalizedName: "etsy seller disbursement",
			wantCategory:   model.CategoryOtherIncome,
			wantConfidence: 0.7,
			wantReason:     model.ReasonIncomeDefault,
		},
		{
			name:           "empty name",
			normalizedName: "",
			wantCategory:   model.CategoryOtherIncome,
			wantConfidence: 0.7,
			wantReason:     model.ReasonIncomeDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyIncome(tt.normalizedName)
			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
