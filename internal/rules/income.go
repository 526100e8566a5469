package rules

import "github.com/saffron-ledger/saffron/internal/model"

// Salary indicators checked against the normalized merchant name. The list
// deliberately mirrors long-observed behavior, including generic terms
// ("credit", "deposit", "refund", "return") that can mislabel merchant
// refunds as salary. Known accuracy limitation, kept as-is.
var salaryIndicators = []string{
	"payroll",
	"salary",
	"direct deposit",
	"paychex",
	"adp",
	"workday",
	"paycheck",
	"wage",
	"income",
	"deposit",
	"credit",
	"refund",
	"return",
	"bonus",
	"commission",
}

// ClassifyIncome categorizes a money-received transaction from its normalized
// merchant name. It is terminal for income transactions: they never reach the
// expense-only hard rules or keyword scoring.
func ClassifyIncome(normalizedName string) Match {
	if anyContains(normalizedName, salaryIndicators) {
		return Match{
			Category:   model.CategorySalary,
			Confidence: 0.85,
			Reason:     model.ReasonIncomeSalary,
		}
	}
	return Match{
		Category:   model.CategoryOtherIncome,
		Confidence: 0.7,
		Reason:     model.ReasonIncomeDefault,
	}
}
