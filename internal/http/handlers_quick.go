package http

import (
	"fmt"
	"net/http"

	"clubledger/internal/core"
)

type bulkRegistrationFeesRequest struct {
	TeamID       string     `json:"team_id"`
	PlayerCount  int        `json:"player_count"`
	FeePerPlayer core.Money `json:"fee_per_player"`
	PaymentDate  core.Date  `json:"payment_date"`
	Notes        string     `json:"notes"`
}

type bulkRegistrationFeesResponse struct {
	Message     string     `json:"message"`
	RevenueID   string     `json:"revenue_id"`
	TotalAmount core.Money `json:"total_amount"`
}

// handleQuickRegistrationFees records one revenue entry covering a whole
// roster's registration fees and updates the team's player count and fee.
func (s *Server) handleQuickRegistrationFees(w http.ResponseWriter, r *http.Request) {
	var req bulkRegistrationFeesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerCount <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "player_count must be positive"})
		return
	}

	team, err := s.store.GetTeam(r.Context(), req.TeamID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	total := req.FeePerPlayer.MulCount(req.PlayerCount)
	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("Bulk registration: %d players", req.PlayerCount)
	}

	revenue, err := s.ledger.CreateRevenue(r.Context(), core.Revenue{
		SeasonID:    team.SeasonID,
		TeamID:      team.ID,
		Category:    core.RevenueRegistrationFees,
		Description: fmt.Sprintf("Registration fees for %d players @ $%s", req.PlayerCount, req.FeePerPlayer),
		Amount:      total,
		Source:      fmt.Sprintf("%s - %d players", team.Name, req.PlayerCount),
		PaymentDate: req.PaymentDate,
		Notes:       notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.UpdateTeamRoster(r.Context(), team.ID, req.PlayerCount, req.FeePerPlayer); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, bulkRegistrationFeesResponse{
		Message:     fmt.Sprintf("Recorded $%s in registration fees for %d players", total, req.PlayerCount),
		RevenueID:   revenue.ID,
		TotalAmount: total,
	})
}

type quickExpenseRequest struct {
	TeamID      string     `json:"team_id"`
	SeasonID    string     `json:"season_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	PlayerCount int        `json:"player_count"`
	PaymentDate core.Date  `json:"payment_date"`
}

type quickExpenseResponse struct {
	Message       string      `json:"message"`
	ExpenseID     string      `json:"expense_id"`
	PerPlayerCost *core.Money `json:"per_player_cost"`
}

// handleQuickExpense records a team expense with minimal input. When a player
// count is supplied the description is annotated with the per-player share.
func (s *Server) handleQuickExpense(w http.ResponseWriter, r *http.Request) {
	var req quickExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, known := core.ParseExpenseCategory(req.Category)
	if !known {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid expense category: %s", req.Category)})
		return
	}

	if _, err := s.store.GetTeam(r.Context(), req.TeamID); err != nil {
		writeError(w, r, err)
		return
	}

	description := req.Description
	var perPlayer *core.Money
	if req.PlayerCount > 0 {
		share := req.Amount.DivCount(req.PlayerCount)
		perPlayer = &share
		description = fmt.Sprintf("%s (%d players @ $%s each)", req.Description, req.PlayerCount, share)
	}

	expense, err := s.ledger.CreateExpense(r.Context(), core.Expense{
		SeasonID:    req.SeasonID,
		TeamID:      req.TeamID,
		Category:    category,
		Description: description,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, quickExpenseResponse{
		Message:       fmt.Sprintf("Recorded $%s expense", req.Amount),
		ExpenseID:     expense.ID,
		PerPlayerCost: perPlayer,
	})
}
