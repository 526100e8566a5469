package model

// Budget categories form a fixed closed set of user-facing labels. The four
// sentinel values at the end are produced by specific pipeline stages rather
// than keyword scoring.
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryShopping       = "Shopping"
	CategoryUtilities      = "Utilities"
	CategoryHealth         = "Health"
	CategoryEntertainment  = "Entertainment"
	CategoryBusiness       = "Business"
	CategoryCreditCard     = "Credit Card"
	CategoryLoanPayment    = "Loan Payment"
	CategoryRent           = "Rent"
	CategoryCarPayment     = "Car Payment"
	CategoryInsurance      = "Insurance"
	CategoryInternet       = "Internet"
	CategoryPhone          = "Phone"
	CategorySubscriptions  = "Subscriptions"
	CategorySalary         = "Salary"

	CategoryOtherIncome   = "Other Income"
	CategoryOtherExpenses = "Other Expenses"
	CategoryAdjustments   = "Adjustments"
	CategoryTransfersOut  = "Transfers Out"
)

// Categories returns every valid budget category, sentinels included.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransportation,
		CategoryShopping,
		CategoryUtilities,
		CategoryHealth,
		CategoryEntertainment,
		CategoryBusiness,
		CategoryCreditCard,
		CategoryLoanPayment,
		CategoryRent,
		CategoryCarPayment,
		CategoryInsurance,
		CategoryInternet,
		CategoryPhone,
		CategorySubscriptions,
		CategorySalary,
		CategoryOtherIncome,
		CategoryOtherExpenses,
		CategoryAdjustments,
		CategoryTransfersOut,
	}
}

// IsValidCategory reports whether name belongs to the closed category set.
func IsValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}
