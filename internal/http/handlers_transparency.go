package http

import (
	"net/http"
)

// handleSeasonReport returns the public transparency report for one season.
func (s *Server) handleSeasonReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.BuildTransparencyReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleOrganizationReport rolls the report up across an organization's
// seasons. An optional season_id query parameter narrows it to one season.
func (s *Server) handleOrganizationReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.BuildOrganizationReport(r.Context(), r.PathValue("id"), r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePlayerCosts returns the per-player cost breakdown for one team.
func (s *Server) handlePlayerCosts(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.reports.ComputePlayerCostBreakdown(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
