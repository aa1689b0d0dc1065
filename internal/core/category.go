package core

import "strings"

// Expense categories. The set is closed; values arriving from imports or old
// data that are not listed here still aggregate under their raw value (see
// Label), so reporting degrades gracefully instead of failing.
const (
	ExpenseEquipment        ExpenseCategory = "equipment"
	ExpenseUniforms         ExpenseCategory = "uniforms"
	ExpenseFieldRental      ExpenseCategory = "field_rental"
	ExpenseRefereeFees      ExpenseCategory = "referee_fees"
	ExpenseCoachingStipends ExpenseCategory = "coaching_stipends"
	ExpenseTravel           ExpenseCategory = "travel"
	ExpenseTournamentFees   ExpenseCategory = "tournament_fees"
	ExpenseInsurance        ExpenseCategory = "insurance"
	ExpenseFirstAid         ExpenseCategory = "first_aid"
	ExpenseAwards           ExpenseCategory = "awards"
	ExpenseMarketing        ExpenseCategory = "marketing"
	ExpenseAdministration   ExpenseCategory = "administration"
	ExpenseOther            ExpenseCategory = "other"
)

// Revenue categories.
const (
	RevenueRegistrationFees RevenueCategory = "registration_fees"
	RevenueSponsorships     RevenueCategory = "sponsorships"
	RevenueFundraisers      RevenueCategory = "fundraisers"
	RevenueConcessions      RevenueCategory = "concessions"
	RevenueMerchandise      RevenueCategory = "merchandise"
	RevenueDonations        RevenueCategory = "donations"
	RevenueOther            RevenueCategory = "other"
)

// BudgetCategoryTotal is the sentinel budget category meaning an overall
// season cap rather than a per-category cap.
const BudgetCategoryTotal = "total"

type (
	ExpenseCategory string
	RevenueCategory string
)

var expenseLabels = map[ExpenseCategory]string{
	ExpenseEquipment:        "Equipment",
	ExpenseUniforms:         "Uniforms",
	ExpenseFieldRental:      "Field/Facility Rental",
	ExpenseRefereeFees:      "Referee Fees",
	ExpenseCoachingStipends: "Coaching Stipends",
	ExpenseTravel:           "Travel",
	ExpenseTournamentFees:   "Tournament Fees",
	ExpenseInsurance:        "Insurance",
	ExpenseFirstAid:         "First Aid",
	ExpenseAwards:           "Awards & Trophies",
	ExpenseMarketing:        "Marketing",
	ExpenseAdministration:   "Administration",
	ExpenseOther:            "Other",
}

var revenueLabels = map[RevenueCategory]string{
	RevenueRegistrationFees: "Registration Fees",
	RevenueSponsorships:     "Sponsorships",
	RevenueFundraisers:      "Fundraisers",
	RevenueConcessions:      "Concessions",
	RevenueMerchandise:      "Merchandise",
	RevenueDonations:        "Donations",
	RevenueOther:            "Other",
}

// Known reports whether c is one of the closed expense categories.
func (c ExpenseCategory) Known() bool {
	_, ok := expenseLabels[c]
	return ok
}

// Label returns the display label for the category. Unrecognized values pass
// through verbatim.
func (c ExpenseCategory) Label() string {
	if label, ok := expenseLabels[c]; ok {
		return label
	}
	return string(c)
}

// Known reports whether c is one of the closed revenue categories.
func (c RevenueCategory) Known() bool {
	_, ok := revenueLabels[c]
	return ok
}

// Label returns the display label for the category. Unrecognized values pass
// through verbatim.
func (c RevenueCategory) Label() string {
	if label, ok := revenueLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseExpenseCategory maps a raw string to a known category, falling back to
// ExpenseOther for anything unrecognized. Batch imports use the fallback so a
// single odd row never sinks a whole file.
func ParseExpenseCategory(s string) (ExpenseCategory, bool) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Known() {
		return c, true
	}
	return ExpenseOther, false
}

// ParseRevenueCategory is the revenue counterpart of ParseExpenseCategory.
func ParseRevenueCategory(s string) (RevenueCategory, bool) {
	c := RevenueCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Known() {
		return c, true
	}
	return RevenueOther, false
}

// ExpenseCategories returns the closed expense category set in declaration
// order, for validation and UI pickers.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseEquipment, ExpenseUniforms, ExpenseFieldRental, ExpenseRefereeFees,
		ExpenseCoachingStipends, ExpenseTravel, ExpenseTournamentFees,
		ExpenseInsurance, ExpenseFirstAid, ExpenseAwards, ExpenseMarketing,
		ExpenseAdministration, ExpenseOther,
	}
}

// RevenueCategories returns the closed revenue category set in declaration order.
func RevenueCategories() []RevenueCategory {
	return []RevenueCategory{
		RevenueRegistrationFees, RevenueSponsorships, RevenueFundraisers,
		RevenueConcessions, RevenueMerchandise, RevenueDonations, RevenueOther,
	}
}
