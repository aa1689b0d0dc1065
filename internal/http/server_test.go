package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"clubledger/internal/importer"
	"clubledger/internal/report"
	"clubledger/internal/services"
	"clubledger/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}

	srv := NewServer("", store, services.NewLedgerService(store, nil), report.NewService(store), importer.New(store, 500))
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.rateLimiter.stop()
		store.Close()
	})
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func decode(t *testing.T, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func createViaAPI(t *testing.T, url string, body map[string]any) map[string]any {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, url, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST %s = %d: %s", url, resp.StatusCode, data)
	}
	var out map[string]any
	decode(t, data, &out)
	return out
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK || string(data) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodGet, ts.URL+"/readyz", nil)
	if resp.StatusCode != http.StatusOK || string(data) != "ready" {
		t.Errorf("readyz = %d %q", resp.StatusCode, data)
	}
}

func TestLedgerEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	season := createViaAPI(t, api+"/seasons", map[string]any{
		"name":        "Fall 2025",
		"season_type": "fall",
		"year":        2025,
		"start_date":  "2025-09-01",
		"end_date":    "2025-11-30",
	})
	seasonID := season["id"].(string)
	if season["is_active"] != true {
		t.Error("is_active should default to true")
	}

	team := createViaAPI(t, api+"/teams", map[string]any{
		"season_id":        seasonID,
		"name":             "U10 Hawks",
		"age_group":        "U10",
		"sport":            "soccer",
		"current_players":  10,
		"registration_fee": 150.00,
	})
	teamID := team["id"].(string)
	if team["max_players"] != float64(20) {
		t.Errorf("max_players default = %v, want 20", team["max_players"])
	}

	createViaAPI(t, api+"/budgets", map[string]any{
		"season_id":       seasonID,
		"category":        "total",
		"budgeted_amount": 5000.00,
	})
	createViaAPI(t, api+"/budgets", map[string]any{
		"season_id":       seasonID,
		"team_id":         teamID,
		"category":        "equipment",
		"budgeted_amount": 1000.00,
	})

	createViaAPI(t, api+"/expenses", map[string]any{
		"season_id":    seasonID,
		"team_id":      teamID,
		"category":     "equipment",
		"description":  "Practice balls",
		"amount":       400.00,
		"payment_date": "2025-09-15",
	})
	createViaAPI(t, api+"/revenues", map[string]any{
		"season_id":    seasonID,
		"team_id":      teamID,
		"category":     "registration_fees",
		"description":  "Fall registration",
		"amount":       1200.00,
		"payment_date": "2025-09-01",
	})

	// Season summary.
	resp, data := doJSON(t, http.MethodGet, api+"/budgets/summary?season_id="+seasonID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary = %d: %s", resp.StatusCode, data)
	}
	var summary struct {
		TotalBudgeted   json.Number `json:"total_budgeted"`
		TotalExpenses   json.Number `json:"total_expenses"`
		RemainingBudget json.Number `json:"remaining_budget"`
		ProfitLoss      json.Number `json:"profit_loss"`
	}
	decode(t, data, &summary)
	if summary.TotalBudgeted.String() != "6000.00" {
		t.Errorf("total_budgeted = %s, want 6000.00", summary.TotalBudgeted)
	}
	if summary.RemainingBudget.String() != "5600.00" {
		t.Errorf("remaining_budget = %s, want 5600.00", summary.RemainingBudget)
	}
	if summary.ProfitLoss.String() != "800.00" {
		t.Errorf("profit_loss = %s, want 800.00", summary.ProfitLoss)
	}

	// Team summary.
	resp, data = doJSON(t, http.MethodGet, api+"/budgets/teams/"+teamID+"/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("team summary = %d: %s", resp.StatusCode, data)
	}
	var teamSummary struct {
		TeamName                  string      `json:"team_name"`
		PlayerCount               int         `json:"player_count"`
		RegistrationFeesCollected json.Number `json:"registration_fees_collected"`
		RegistrationFeesExpected  json.Number `json:"registration_fees_expected"`
	}
	decode(t, data, &teamSummary)
	if teamSummary.TeamName != "U10 Hawks" || teamSummary.PlayerCount != 10 {
		t.Errorf("team summary = %+v", teamSummary)
	}
	if teamSummary.RegistrationFeesCollected.String() != "1200.00" {
		t.Errorf("fees collected = %s", teamSummary.RegistrationFeesCollected)
	}
	if teamSummary.RegistrationFeesExpected.String() != "1500.00" {
		t.Errorf("fees expected = %s", teamSummary.RegistrationFeesExpected)
	}

	// Transparency report.
	resp, data = doJSON(t, http.MethodGet, api+"/transparency/seasons/"+seasonID+"/report", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transparency = %d: %s", resp.StatusCode, data)
	}
	var rep struct {
		OrganizationName   string                 `json:"organization_name"`
		ExpensesByCategory map[string]json.Number `json:"expenses_by_category"`
		PlayerCostBreakdown []struct {
			TeamName      string      `json:"team_name"`
			CostPerPlayer json.Number `json:"cost_per_player"`
		} `json:"player_cost_breakdown"`
	}
	decode(t, data, &rep)
	if rep.OrganizationName != "Fall 2025" {
		t.Errorf("organization_name fallback = %q", rep.OrganizationName)
	}
	if rep.ExpensesByCategory["Equipment"].String() != "400.00" {
		t.Errorf("expenses_by_category = %v", rep.ExpensesByCategory)
	}
	if len(rep.PlayerCostBreakdown) != 1 || rep.PlayerCostBreakdown[0].CostPerPlayer.String() != "40.00" {
		t.Errorf("player_cost_breakdown = %+v", rep.PlayerCostBreakdown)
	}

	// Per-team player costs.
	resp, data = doJSON(t, http.MethodGet, api+"/transparency/teams/"+teamID+"/player-costs", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("player costs = %d: %s", resp.StatusCode, data)
	}
	var costs struct {
		TotalCost  json.Number `json:"total_cost"`
		OtherCosts json.Number `json:"other_costs"`
	}
	decode(t, data, &costs)
	if costs.TotalCost.String() != "400.00" {
		t.Errorf("total_cost = %s", costs.TotalCost)
	}
	// 400 spent minus 1500 expected fees.
	if costs.OtherCosts.String() != "-1100.00" {
		t.Errorf("other_costs = %s", costs.OtherCosts)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	resp, data := doJSON(t, http.MethodGet, api+"/expenses/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expense categories = %d", resp.StatusCode)
	}
	var cats []categoryResponse
	decode(t, data, &cats)
	if len(cats) != 13 {
		t.Errorf("expense categories = %d, want 13", len(cats))
	}
	if cats[0].Value != "equipment" || cats[0].Label != "Equipment" {
		t.Errorf("first category = %+v", cats[0])
	}

	resp, data = doJSON(t, http.MethodGet, api+"/revenues/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revenue categories = %d", resp.StatusCode)
	}
	decode(t, data, &cats)
	if len(cats) != 7 {
		t.Errorf("revenue categories = %d, want 7", len(cats))
	}
}

func TestQuickRegistrationFees(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	season := createViaAPI(t, api+"/seasons", map[string]any{
		"name": "Fall 2025", "season_type": "fall", "year": 2025,
		"start_date": "2025-09-01", "end_date": "2025-11-30",
	})
	team := createViaAPI(t, api+"/teams", map[string]any{
		"season_id": season["id"], "name": "U10 Hawks",
	})

	resp, data := doJSON(t, http.MethodPost, api+"/quick/registration-fees", map[string]any{
		"team_id":        team["id"],
		"player_count":   12,
		"fee_per_player": 150.00,
		"payment_date":   "2025-09-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("quick fees = %d: %s", resp.StatusCode, data)
	}
	var out struct {
		Message     string      `json:"message"`
		RevenueID   string      `json:"revenue_id"`
		TotalAmount json.Number `json:"total_amount"`
	}
	decode(t, data, &out)
	if out.TotalAmount.String() != "1800.00" {
		t.Errorf("total_amount = %s, want 1800.00", out.TotalAmount)
	}
	if out.RevenueID == "" {
		t.Error("revenue_id empty")
	}

	// Roster was updated from the bulk payment.
	resp, data = doJSON(t, http.MethodGet, api+"/teams/"+team["id"].(string), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get team = %d", resp.StatusCode)
	}
	var updated struct {
		CurrentPlayers  int         `json:"current_players"`
		RegistrationFee json.Number `json:"registration_fee"`
	}
	decode(t, data, &updated)
	if updated.CurrentPlayers != 12 || updated.RegistrationFee.String() != "150.00" {
		t.Errorf("roster = %+v", updated)
	}

	// Zero players is a validation failure.
	resp, _ = doJSON(t, http.MethodPost, api+"/quick/registration-fees", map[string]any{
		"team_id": team["id"], "player_count": 0, "fee_per_player": 150.00,
		"payment_date": "2025-09-01",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("zero players = %d, want 422", resp.StatusCode)
	}
}

func TestQuickExpense(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	season := createViaAPI(t, api+"/seasons", map[string]any{
		"name": "Fall 2025", "season_type": "fall", "year": 2025,
		"start_date": "2025-09-01", "end_date": "2025-11-30",
	})
	team := createViaAPI(t, api+"/teams", map[string]any{
		"season_id": season["id"], "name": "U10 Hawks",
	})

	resp, data := doJSON(t, http.MethodPost, api+"/quick/expenses", map[string]any{
		"team_id":      team["id"],
		"season_id":    season["id"],
		"category":     "tournament_fees",
		"description":  "Regional tournament",
		"amount":       300.00,
		"player_count": 8,
		"payment_date": "2025-10-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("quick expense = %d: %s", resp.StatusCode, data)
	}
	var out struct {
		ExpenseID     string      `json:"expense_id"`
		PerPlayerCost json.Number `json:"per_player_cost"`
	}
	decode(t, data, &out)
	if out.PerPlayerCost.String() != "37.50" {
		t.Errorf("per_player_cost = %s, want 37.50", out.PerPlayerCost)
	}

	// The per-player share is baked into the stored description.
	resp, data = doJSON(t, http.MethodGet, api+"/expenses/"+out.ExpenseID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get expense = %d", resp.StatusCode)
	}
	var stored struct {
		Description string `json:"description"`
	}
	decode(t, data, &stored)
	if !strings.Contains(stored.Description, "(8 players @ $37.50 each)") {
		t.Errorf("description = %q", stored.Description)
	}

	// Unknown categories are rejected, not coerced to "other".
	resp, data = doJSON(t, http.MethodPost, api+"/quick/expenses", map[string]any{
		"team_id": team["id"], "season_id": season["id"],
		"category": "bribes", "description": "x", "amount": 10.00,
		"payment_date": "2025-10-01",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad category = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(data), "Invalid expense category: bribes") {
		t.Errorf("body = %s", data)
	}
}

func TestImportEndpoints(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	season := createViaAPI(t, api+"/seasons", map[string]any{
		"name": "Fall 2025", "season_type": "fall", "year": 2025,
		"start_date": "2025-09-01", "end_date": "2025-11-30",
	})
	seasonID := season["id"].(string)

	csv := fmt.Sprintf(`season_id,team_id,category,description,amount,vendor,receipt_number,payment_date,notes
%s,,equipment,Practice balls,45.00,SportMart,,2025-09-15,
%s,,travel,Bad amount,abc,,,2025-09-20,
`, seasonID, seasonID)

	resp, err := http.Post(api+"/import/expenses", "text/csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("POST import: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("import = %d: %s", resp.StatusCode, data)
	}
	var result importer.Result
	decode(t, data, &result)
	if result.Created != 1 {
		t.Errorf("created = %d, want 1", result.Created)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 3:") {
		t.Errorf("errors = %v", result.Errors)
	}

	// Templates.
	resp, data = doJSON(t, http.MethodGet, api+"/import/templates/expenses", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("template = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(data), "season_id,team_id,category") {
		t.Errorf("template body = %q", data)
	}

	resp, _ = doJSON(t, http.MethodGet, api+"/import/templates/players", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown template = %d, want 404", resp.StatusCode)
	}
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	// Unknown IDs map to 404.
	resp, _ := doJSON(t, http.MethodGet, api+"/seasons/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing season = %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, api+"/budgets/summary?season_id=ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("summary for missing season = %d, want 404", resp.StatusCode)
	}

	// Missing required query parameter.
	resp, _ = doJSON(t, http.MethodGet, api+"/expenses", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("list without season_id = %d, want 400", resp.StatusCode)
	}

	// Malformed JSON body.
	req, _ := http.NewRequest(http.MethodPost, api+"/seasons", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	badResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("bad json request: %v", err)
	}
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", badResp.StatusCode)
	}

	// Domain validation failures map to 422.
	resp, _ = doJSON(t, http.MethodPost, api+"/seasons", map[string]any{
		"name": "", "season_type": "fall", "year": 2025,
		"start_date": "2025-09-01", "end_date": "2025-11-30",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("empty name = %d, want 422", resp.StatusCode)
	}

	// A record referencing a team from a different season maps to 409.
	fall := createViaAPI(t, api+"/seasons", map[string]any{
		"name": "Fall 2025", "season_type": "fall", "year": 2025,
		"start_date": "2025-09-01", "end_date": "2025-11-30",
	})
	spring := createViaAPI(t, api+"/seasons", map[string]any{
		"name": "Spring 2026", "season_type": "spring", "year": 2026,
		"start_date": "2026-03-01", "end_date": "2026-05-31",
	})
	team := createViaAPI(t, api+"/teams", map[string]any{
		"season_id": fall["id"], "name": "U10 Hawks",
		"age_group": "U10", "sport": "soccer",
	})
	resp, _ = doJSON(t, http.MethodPost, api+"/expenses", map[string]any{
		"season_id":    spring["id"],
		"team_id":      team["id"],
		"category":     "equipment",
		"description":  "Wrong season",
		"amount":       10.00,
		"payment_date": "2026-03-15",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("cross-season expense = %d, want 409", resp.StatusCode)
	}

	// Security headers ride on wrapped routes.
	resp, _ = doJSON(t, http.MethodGet, api+"/seasons", nil)
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}
