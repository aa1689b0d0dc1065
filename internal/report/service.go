// Package report derives financial summaries and the public transparency
// report from ledger state. Every operation is a pure, read-only function of
// the store's current contents: no caching, no mutation, identical input state
// yields identical output.
package report

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"clubledger/internal/core"
)

// Store is the ledger collaborator the service reads through. List operations
// are season-scoped with an optional team filter (empty teamID means all
// records of the season, including team-scoped ones). Implementations signal
// missing entities with core.ErrNotFound.
type Store interface {
	GetSeason(ctx context.Context, seasonID string) (core.Season, error)
	GetTeam(ctx context.Context, teamID string) (core.Team, error)
	ListTeams(ctx context.Context, seasonID string) ([]core.Team, error)
	ListSeasonsByOrganization(ctx context.Context, orgID string) ([]core.Season, error)
	GetOrganizationName(ctx context.Context, orgID string) (string, error)
	ListBudgets(ctx context.Context, seasonID, teamID string) ([]core.Budget, error)
	ListExpenses(ctx context.Context, seasonID, teamID string) ([]core.Expense, error)
	ListRevenues(ctx context.Context, seasonID, teamID string) ([]core.Revenue, error)
	ListExpensesByTeam(ctx context.Context, teamID string) ([]core.Expense, error)
	ListRevenuesByTeam(ctx context.Context, teamID string) ([]core.Revenue, error)
	ListBudgetsByTeam(ctx context.Context, teamID string) ([]core.Budget, error)
}

// Service builds summaries and transparency reports.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// upstream classifies a store failure: missing entities pass through
// unchanged, anything else is an upstream availability problem.
func upstream(op string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUpstreamUnavailable, err)
}

// BuildSeasonSummary computes the season-wide BudgetSummary. The season's
// team-scoped records count toward season totals; budget rows with the
// "total" sentinel category are summed uniformly with category rows.
func (s *Service) BuildSeasonSummary(ctx context.Context, seasonID string) (core.BudgetSummary, error) {
	season, err := s.store.GetSeason(ctx, seasonID)
	if err != nil {
		return core.BudgetSummary{}, upstream("get season", err)
	}

	budgets, err := s.store.ListBudgets(ctx, seasonID, "")
	if err != nil {
		return core.BudgetSummary{}, upstream("list budgets", err)
	}
	expenses, err := s.store.ListExpenses(ctx, seasonID, "")
	if err != nil {
		return core.BudgetSummary{}, upstream("list expenses", err)
	}
	revenues, err := s.store.ListRevenues(ctx, seasonID, "")
	if err != nil {
		return core.BudgetSummary{}, upstream("list revenues", err)
	}

	totalBudgeted := core.SumBudgetedAmounts(budgets)
	totalExpenses := core.SumExpenseAmounts(expenses)
	totalRevenue := core.SumRevenueAmounts(revenues)

	return core.BudgetSummary{
		SeasonID:        season.ID,
		SeasonName:      season.Name,
		TotalBudgeted:   totalBudgeted,
		TotalExpenses:   totalExpenses,
		TotalRevenue:    totalRevenue,
		RemainingBudget: totalBudgeted.Sub(totalExpenses),
		ProfitLoss:      totalRevenue.Sub(totalExpenses),
	}, nil
}

// BuildTeamSummary computes the team-scoped TeamBudgetSummary. Season-wide
// (team-less) records are excluded; registration fees collected come from the
// team's revenue rows in the registration-fees category.
func (s *Service) BuildTeamSummary(ctx context.Context, teamID string) (core.TeamBudgetSummary, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return core.TeamBudgetSummary{}, upstream("get team", err)
	}

	budgets, err := s.store.ListBudgetsByTeam(ctx, teamID)
	if err != nil {
		return core.TeamBudgetSummary{}, upstream("list team budgets", err)
	}
	expenses, err := s.store.ListExpensesByTeam(ctx, teamID)
	if err != nil {
		return core.TeamBudgetSummary{}, upstream("list team expenses", err)
	}
	revenues, err := s.store.ListRevenuesByTeam(ctx, teamID)
	if err != nil {
		return core.TeamBudgetSummary{}, upstream("list team revenues", err)
	}

	// A record attributed to this team but filed under a different season is
	// corrupt scoping, not something to aggregate around.
	for _, b := range budgets {
		if b.SeasonID != team.SeasonID {
			return core.TeamBudgetSummary{}, fmt.Errorf("budget %s: %w", b.ID, ErrInvalidScope)
		}
	}
	for _, e := range expenses {
		if e.SeasonID != team.SeasonID {
			return core.TeamBudgetSummary{}, fmt.Errorf("expense %s: %w", e.ID, ErrInvalidScope)
		}
	}
	for _, r := range revenues {
		if r.SeasonID != team.SeasonID {
			return core.TeamBudgetSummary{}, fmt.Errorf("revenue %s: %w", r.ID, ErrInvalidScope)
		}
	}

	totalBudgeted := core.SumBudgetedAmounts(budgets)
	totalExpenses := core.SumExpenseAmounts(expenses)
	totalRevenue := core.SumRevenueAmounts(revenues)

	var feesCollected core.Money
	for _, r := range revenues {
		if r.Category == core.RevenueRegistrationFees {
			feesCollected = feesCollected.Add(r.Amount)
		}
	}

	return core.TeamBudgetSummary{
		TeamID:                    team.ID,
		TeamName:                  team.Name,
		TotalBudgeted:             totalBudgeted,
		TotalExpenses:             totalExpenses,
		TotalRevenue:              totalRevenue,
		RemainingBudget:           totalBudgeted.Sub(totalExpenses),
		ProfitLoss:                totalRevenue.Sub(totalExpenses),
		PlayerCount:               team.CurrentPlayers,
		RegistrationFeesCollected: feesCollected,
		RegistrationFeesExpected:  team.RegistrationFee.MulCount(team.CurrentPlayers),
	}, nil
}

// ComputePlayerCostBreakdown allocates a team's recorded cost across its
// roster. Only expenses attributed to the team count; season-wide shared
// expenses are not prorated in. A zero player count yields a zero cost per
// player, never a division fault.
func (s *Service) ComputePlayerCostBreakdown(ctx context.Context, teamID string) (core.PlayerCostBreakdown, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return core.PlayerCostBreakdown{}, upstream("get team", err)
	}
	return s.playerCostBreakdown(ctx, team)
}

func (s *Service) playerCostBreakdown(ctx context.Context, team core.Team) (core.PlayerCostBreakdown, error) {
	expenses, err := s.store.ListExpensesByTeam(ctx, team.ID)
	if err != nil {
		return core.PlayerCostBreakdown{}, upstream("list team expenses", err)
	}

	totalCost := core.SumExpenseAmounts(expenses)
	expectedFees := team.RegistrationFee.MulCount(team.CurrentPlayers)

	return core.PlayerCostBreakdown{
		TeamID:              team.ID,
		TeamName:            team.Name,
		TotalCost:           totalCost,
		PlayerCount:         team.CurrentPlayers,
		CostPerPlayer:       totalCost.DivCount(team.CurrentPlayers),
		RegistrationFee:     team.RegistrationFee,
		OtherCosts:          totalCost.Sub(expectedFees),
		BreakdownByCategory: core.SumExpensesByCategory(expenses),
	}, nil
}

// BuildTransparencyReport composes the public report for one season: season
// totals, category breakdowns over the season's full expense and revenue
// sets, and a per-team cost breakdown in team creation order. A season with
// no activity yields empty collections, not an error.
func (s *Service) BuildTransparencyReport(ctx context.Context, seasonID string) (core.TransparencyReport, error) {
	season, err := s.store.GetSeason(ctx, seasonID)
	if err != nil {
		return core.TransparencyReport{}, upstream("get season", err)
	}

	summary, err := s.BuildSeasonSummary(ctx, seasonID)
	if err != nil {
		return core.TransparencyReport{}, err
	}

	expenses, err := s.store.ListExpenses(ctx, seasonID, "")
	if err != nil {
		return core.TransparencyReport{}, upstream("list expenses", err)
	}
	revenues, err := s.store.ListRevenues(ctx, seasonID, "")
	if err != nil {
		return core.TransparencyReport{}, upstream("list revenues", err)
	}
	teams, err := s.store.ListTeams(ctx, seasonID)
	if err != nil {
		return core.TransparencyReport{}, upstream("list teams", err)
	}

	breakdowns, err := s.teamBreakdowns(ctx, teams)
	if err != nil {
		return core.TransparencyReport{}, err
	}

	orgName := season.Name
	if season.OrganizationID != "" {
		if name, err := s.store.GetOrganizationName(ctx, season.OrganizationID); err == nil {
			orgName = name
		}
	}

	return core.TransparencyReport{
		OrganizationID:      season.OrganizationID,
		OrganizationName:    orgName,
		SeasonID:            season.ID,
		TotalBudgeted:       summary.TotalBudgeted,
		TotalExpenses:       summary.TotalExpenses,
		TotalRevenue:        summary.TotalRevenue,
		ExpensesByCategory:  core.SumExpensesByCategory(expenses),
		RevenuesByCategory:  core.SumRevenuesByCategory(revenues),
		PlayerCostBreakdown: breakdowns,
		ProfitLoss:          summary.ProfitLoss,
	}, nil
}

// BuildOrganizationReport spans every season of an organization, optionally
// narrowed to one season. An organization with no matching seasons is a
// not-found condition, mirroring the public API contract.
func (s *Service) BuildOrganizationReport(ctx context.Context, orgID, seasonID string) (core.TransparencyReport, error) {
	orgName, err := s.store.GetOrganizationName(ctx, orgID)
	if err != nil {
		return core.TransparencyReport{}, upstream("get organization", err)
	}

	seasons, err := s.store.ListSeasonsByOrganization(ctx, orgID)
	if err != nil {
		return core.TransparencyReport{}, upstream("list seasons", err)
	}
	if seasonID != "" {
		filtered := seasons[:0]
		for _, season := range seasons {
			if season.ID == seasonID {
				filtered = append(filtered, season)
			}
		}
		seasons = filtered
	}
	if len(seasons) == 0 {
		return core.TransparencyReport{}, fmt.Errorf("no seasons for organization %s: %w", orgID, core.ErrNotFound)
	}

	out := core.TransparencyReport{
		OrganizationID:      orgID,
		OrganizationName:    orgName,
		SeasonID:            seasonID,
		ExpensesByCategory:  map[string]core.Money{},
		RevenuesByCategory:  map[string]core.Money{},
		PlayerCostBreakdown: []core.PlayerCostBreakdown{},
	}

	for _, season := range seasons {
		budgets, err := s.store.ListBudgets(ctx, season.ID, "")
		if err != nil {
			return core.TransparencyReport{}, upstream("list budgets", err)
		}
		expenses, err := s.store.ListExpenses(ctx, season.ID, "")
		if err != nil {
			return core.TransparencyReport{}, upstream("list expenses", err)
		}
		revenues, err := s.store.ListRevenues(ctx, season.ID, "")
		if err != nil {
			return core.TransparencyReport{}, upstream("list revenues", err)
		}
		teams, err := s.store.ListTeams(ctx, season.ID)
		if err != nil {
			return core.TransparencyReport{}, upstream("list teams", err)
		}

		out.TotalBudgeted = out.TotalBudgeted.Add(core.SumBudgetedAmounts(budgets))
		out.TotalExpenses = out.TotalExpenses.Add(core.SumExpenseAmounts(expenses))
		out.TotalRevenue = out.TotalRevenue.Add(core.SumRevenueAmounts(revenues))
		for label, amount := range core.SumExpensesByCategory(expenses) {
			out.ExpensesByCategory[label] = out.ExpensesByCategory[label].Add(amount)
		}
		for label, amount := range core.SumRevenuesByCategory(revenues) {
			out.RevenuesByCategory[label] = out.RevenuesByCategory[label].Add(amount)
		}

		breakdowns, err := s.teamBreakdowns(ctx, teams)
		if err != nil {
			return core.TransparencyReport{}, err
		}
		out.PlayerCostBreakdown = append(out.PlayerCostBreakdown, breakdowns...)
	}

	out.ProfitLoss = out.TotalRevenue.Sub(out.TotalExpenses)
	return out, nil
}

// teamBreakdowns computes per-team cost breakdowns concurrently. Results land
// in index-stable slots so the output order stays the store's team order
// regardless of scheduling.
func (s *Service) teamBreakdowns(ctx context.Context, teams []core.Team) ([]core.PlayerCostBreakdown, error) {
	breakdowns := make([]core.PlayerCostBreakdown, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, team := range teams {
		g.Go(func() error {
			b, err := s.playerCostBreakdown(gctx, team)
			if err != nil {
				return err
			}
			breakdowns[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return breakdowns, nil
}
