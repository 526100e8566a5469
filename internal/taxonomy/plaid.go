// Package taxonomy maps upstream bank-aggregator category strings onto the
// application's budget categories. The mapper is a pure static lookup with no
// I/O so it can be unit-tested and reused outside the categorization engine.
package taxonomy

import (
	"strings"

	"github.com/saffron-ledger/saffron/internal/model"
)

// mapping binds one upstream category to a budget category. A mapping matches
// when the input equals Upstream exactly (primary granularity) or starts with
// Upstream plus an underscore (detailed granularity).
type mapping struct {
	Upstream string
	Category string
}

// Ordered dispatch table. More specific detailed prefixes must come before
// their containing primary so e.g. RENT_AND_UTILITIES_INTERNET resolves to
// Internet rather than Utilities.
var mappings = []mapping{
	{"RENT_AND_UTILITIES_INTERNET", model.CategoryInternet},
	{"RENT_AND_UTILITIES_TELEPHONE", model.CategoryPhone},
	{"RENT_AND_UTILITIES_RENT", model.CategoryRent},
	{"LOAN_PAYMENTS_CAR_PAYMENT", model.CategoryCarPayment},
	{"LOAN_PAYMENTS_CREDIT_CARD_PAYMENT", model.CategoryCreditCard},
	{"ENTERTAINMENT_TV_AND_MOVIES", model.CategorySubscriptions},
	{"ENTERTAINMENT_MUSIC_AND_AUDIO", model.CategorySubscriptions},
	{"GENERAL_SERVICES_INSURANCE", model.CategoryInsurance},
	{"INCOME_WAGES", model.CategorySalary},

	{"FOOD_AND_DRINK", model.CategoryFood},
	{"TRANSPORTATION", model.CategoryTransportation},
	{"TRAVEL", model.CategoryTransportation},
	{"GENERAL_MERCHANDISE", model.CategoryShopping},
	{"HOME_IMPROVEMENT", model.CategoryShopping},
	{"RENT_AND_UTILITIES", model.CategoryUtilities},
	{"MEDICAL", model.CategoryHealth},
	{"PERSONAL_CARE", model.CategoryHealth},
	{"ENTERTAINMENT", model.CategoryEntertainment},
	{"GENERAL_SERVICES", model.CategoryBusiness},
	{"LOAN_PAYMENTS", model.CategoryLoanPayment},
	{"INCOME", model.CategoryOtherIncome},
	{"TRANSFER_OUT", model.CategoryTransfersOut},

	// Intentionally unmapped, falling through to keyword scoring:
	// TRANSFER_IN (income heuristics handle deposits), BANK_FEES and
	// GOVERNMENT_AND_NON_PROFIT (no budget category fits well enough to
	// assert at mapper confidence).
}

// MapUpstreamCategory translates an upstream category string (primary or
// detailed granularity) into a budget category. The second return value is
// false when the taxonomy intentionally leaves the input unmapped or the
// input is unknown.
func MapUpstreamCategory(raw string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return "", false
	}

	for _, m := range mappings {
		if upper == m.Upstream || strings.HasPrefix(upper, m.Upstream+"_") {
			return m.Category, true
		}
	}
	return "", false
}
