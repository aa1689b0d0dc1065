package core

// Derived views. None of these are stored; they are recomputed from ledger
// state on every read.

// BudgetSummary is the season-wide financial picture.
type BudgetSummary struct {
	SeasonID        string `json:"season_id"`
	SeasonName      string `json:"season_name"`
	TotalBudgeted   Money  `json:"total_budgeted"`
	TotalExpenses   Money  `json:"total_expenses"`
	TotalRevenue    Money  `json:"total_revenue"`
	RemainingBudget Money  `json:"remaining_budget"`
	ProfitLoss      Money  `json:"profit_loss"`
}

// TeamBudgetSummary scopes the same totals to a single team and adds roster
// and registration-fee context.
type TeamBudgetSummary struct {
	TeamID                    string `json:"team_id"`
	TeamName                  string `json:"team_name"`
	TotalBudgeted             Money  `json:"total_budgeted"`
	TotalExpenses             Money  `json:"total_expenses"`
	TotalRevenue              Money  `json:"total_revenue"`
	RemainingBudget           Money  `json:"remaining_budget"`
	ProfitLoss                Money  `json:"profit_loss"`
	PlayerCount               int    `json:"player_count"`
	RegistrationFeesCollected Money  `json:"registration_fees_collected"`
	RegistrationFeesExpected  Money  `json:"registration_fees_expected"`
}

// PlayerCostBreakdown allocates a team's recorded cost across its roster.
// OtherCosts can be negative when expected registration fees exceed recorded
// spend; that is valid output, not an error.
type PlayerCostBreakdown struct {
	TeamID              string           `json:"team_id"`
	TeamName            string           `json:"team_name"`
	TotalCost           Money            `json:"total_cost"`
	PlayerCount         int              `json:"player_count"`
	CostPerPlayer       Money            `json:"cost_per_player"`
	RegistrationFee     Money            `json:"registration_fee"`
	OtherCosts          Money            `json:"other_costs"`
	BreakdownByCategory map[string]Money `json:"breakdown_by_category"`
}

// TransparencyReport is the public-facing aggregate: season totals, category
// breakdowns, and one PlayerCostBreakdown per team in creation order.
type TransparencyReport struct {
	OrganizationID      string                `json:"organization_id"`
	OrganizationName    string                `json:"organization_name"`
	SeasonID            string                `json:"season_id,omitempty"`
	TotalBudgeted       Money                 `json:"total_budgeted"`
	TotalExpenses       Money                 `json:"total_expenses"`
	TotalRevenue        Money                 `json:"total_revenue"`
	ExpensesByCategory  map[string]Money      `json:"expenses_by_category"`
	RevenuesByCategory  map[string]Money      `json:"revenues_by_category"`
	PlayerCostBreakdown []PlayerCostBreakdown `json:"player_cost_breakdown"`
	ProfitLoss          Money                 `json:"profit_loss"`
}
