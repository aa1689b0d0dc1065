package http

import (
	"net/http"
	"time"

	"clubledger/internal/core"
)

type expenseRequest struct {
	SeasonID      string     `json:"season_id"`
	TeamID        string     `json:"team_id"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Amount        core.Money `json:"amount"`
	Vendor        string     `json:"vendor"`
	ReceiptNumber string     `json:"receipt_number"`
	PaymentDate   core.Date  `json:"payment_date"`
	Notes         string     `json:"notes"`
}

type expenseResponse struct {
	ID            string     `json:"id"`
	SeasonID      string     `json:"season_id"`
	TeamID        string     `json:"team_id,omitempty"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Amount        core.Money `json:"amount"`
	Vendor        string     `json:"vendor,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	PaymentDate   core.Date  `json:"payment_date"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		SeasonID:      e.SeasonID,
		TeamID:        e.TeamID,
		Category:      string(e.Category),
		Description:   e.Description,
		Amount:        e.Amount,
		Vendor:        e.Vendor,
		ReceiptNumber: e.ReceiptNumber,
		PaymentDate:   e.PaymentDate,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

func (req expenseRequest) toExpense() core.Expense {
	return core.Expense{
		SeasonID:      req.SeasonID,
		TeamID:        req.TeamID,
		Category:      core.ExpenseCategory(req.Category),
		Description:   req.Description,
		Amount:        req.Amount,
		Vendor:        req.Vendor,
		ReceiptNumber: req.ReceiptNumber,
		PaymentDate:   req.PaymentDate,
		Notes:         req.Notes,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.ledger.CreateExpense(r.Context(), req.toExpense())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season_id")
	if seasonID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season_id is required"})
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), seasonID, r.URL.Query().Get("team_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense := req.toExpense()
	expense.ID = r.PathValue("id")
	if err := s.store.UpdateExpense(r.Context(), expense); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetExpense(r.Context(), expense.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *Server) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.ExpenseCategories()
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Value: string(c), Label: c.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}
