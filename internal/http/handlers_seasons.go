package http

import (
	"net/http"
	"time"

	"clubledger/internal/core"
)

type seasonRequest struct {
	Name           string          `json:"name"`
	SeasonType     core.SeasonType `json:"season_type"`
	Year           int             `json:"year"`
	StartDate      core.Date       `json:"start_date"`
	EndDate        core.Date       `json:"end_date"`
	IsActive       *bool           `json:"is_active"`
	OrganizationID string          `json:"organization_id"`
}

type seasonResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SeasonType     core.SeasonType `json:"season_type"`
	Year           int             `json:"year"`
	StartDate      core.Date       `json:"start_date"`
	EndDate        core.Date       `json:"end_date"`
	IsActive       bool            `json:"is_active"`
	OrganizationID string          `json:"organization_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toSeasonResponse(s core.Season) seasonResponse {
	return seasonResponse{
		ID:             s.ID,
		Name:           s.Name,
		SeasonType:     s.Type,
		Year:           s.Year,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		IsActive:       s.IsActive,
		OrganizationID: s.OrganizationID,
		CreatedAt:      s.CreatedAt,
	}
}

func (req seasonRequest) toSeason() core.Season {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}
	return core.Season{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Type:           req.SeasonType,
		Year:           year,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsActive:       isActive,
	}
}

func (s *Server) handleCreateSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.store.CreateSeason(r.Context(), req.toSeason())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSeasonResponse(created))
}

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	var (
		seasons []core.Season
		err     error
	)
	if orgID := r.URL.Query().Get("organization_id"); orgID != "" {
		seasons, err = s.store.ListSeasonsByOrganization(r.Context(), orgID)
	} else {
		seasons, err = s.store.ListSeasons(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]seasonResponse, 0, len(seasons))
	for _, season := range seasons {
		out = append(out, toSeasonResponse(season))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.store.GetSeason(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeasonResponse(season))
}

func (s *Server) handleUpdateSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	season := req.toSeason()
	season.ID = r.PathValue("id")
	if err := s.store.UpdateSeason(r.Context(), season); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetSeason(r.Context(), season.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeasonResponse(updated))
}

func (s *Server) handleDeleteSeason(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSeason(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
