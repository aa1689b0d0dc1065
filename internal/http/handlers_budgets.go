package http

import (
	"net/http"
	"time"

	"clubledger/internal/core"
)

type budgetRequest struct {
	SeasonID       string     `json:"season_id"`
	TeamID         string     `json:"team_id"`
	Category       string     `json:"category"`
	BudgetedAmount core.Money `json:"budgeted_amount"`
	Notes          string     `json:"notes"`
}

type budgetResponse struct {
	ID             string     `json:"id"`
	SeasonID       string     `json:"season_id"`
	TeamID         string     `json:"team_id,omitempty"`
	Category       string     `json:"category"`
	BudgetedAmount core.Money `json:"budgeted_amount"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:             b.ID,
		SeasonID:       b.SeasonID,
		TeamID:         b.TeamID,
		Category:       b.Category,
		BudgetedAmount: b.BudgetedAmount,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.store.CreateBudget(r.Context(), core.Budget{
		SeasonID:       req.SeasonID,
		TeamID:         req.TeamID,
		Category:       req.Category,
		BudgetedAmount: req.BudgetedAmount,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season_id")
	if seasonID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season_id is required"})
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), seasonID, r.URL.Query().Get("team_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.store.GetBudget(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	budget := core.Budget{
		ID:             r.PathValue("id"),
		SeasonID:       req.SeasonID,
		TeamID:         req.TeamID,
		Category:       req.Category,
		BudgetedAmount: req.BudgetedAmount,
		Notes:          req.Notes,
	}
	if err := s.store.UpdateBudget(r.Context(), budget); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetBudget(r.Context(), budget.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSeasonSummary returns the season-wide budget summary.
func (s *Server) handleSeasonSummary(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season_id")
	if seasonID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season_id is required"})
		return
	}

	summary, err := s.reports.BuildSeasonSummary(r.Context(), seasonID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleTeamSummary returns the budget summary scoped to one team.
func (s *Server) handleTeamSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.BuildTeamSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
