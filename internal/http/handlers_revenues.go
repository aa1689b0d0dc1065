package http

import (
	"net/http"
	"time"

	"clubledger/internal/core"
)

type revenueRequest struct {
	SeasonID    string     `json:"season_id"`
	TeamID      string     `json:"team_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Source      string     `json:"source"`
	PaymentDate core.Date  `json:"payment_date"`
	Notes       string     `json:"notes"`
}

type revenueResponse struct {
	ID          string     `json:"id"`
	SeasonID    string     `json:"season_id"`
	TeamID      string     `json:"team_id,omitempty"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Source      string     `json:"source,omitempty"`
	PaymentDate core.Date  `json:"payment_date"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toRevenueResponse(v core.Revenue) revenueResponse {
	return revenueResponse{
		ID:          v.ID,
		SeasonID:    v.SeasonID,
		TeamID:      v.TeamID,
		Category:    string(v.Category),
		Description: v.Description,
		Amount:      v.Amount,
		Source:      v.Source,
		PaymentDate: v.PaymentDate,
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
	}
}

func (req revenueRequest) toRevenue() core.Revenue {
	return core.Revenue{
		SeasonID:    req.SeasonID,
		TeamID:      req.TeamID,
		Category:    core.RevenueCategory(req.Category),
		Description: req.Description,
		Amount:      req.Amount,
		Source:      req.Source,
		PaymentDate: req.PaymentDate,
		Notes:       req.Notes,
	}
}

func (s *Server) handleCreateRevenue(w http.ResponseWriter, r *http.Request) {
	var req revenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.ledger.CreateRevenue(r.Context(), req.toRevenue())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRevenueResponse(created))
}

func (s *Server) handleListRevenues(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season_id")
	if seasonID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season_id is required"})
		return
	}

	revenues, err := s.store.ListRevenues(r.Context(), seasonID, r.URL.Query().Get("team_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]revenueResponse, 0, len(revenues))
	for _, v := range revenues {
		out = append(out, toRevenueResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := s.store.GetRevenue(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevenueResponse(revenue))
}

func (s *Server) handleUpdateRevenue(w http.ResponseWriter, r *http.Request) {
	var req revenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	revenue := req.toRevenue()
	revenue.ID = r.PathValue("id")
	if err := s.store.UpdateRevenue(r.Context(), revenue); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetRevenue(r.Context(), revenue.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevenueResponse(updated))
}

func (s *Server) handleDeleteRevenue(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRevenue(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevenueCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.RevenueCategories()
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Value: string(c), Label: c.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}
