package http

import (
	"net/http"
	"time"

	"clubledger/internal/core"
)

type teamRequest struct {
	SeasonID        string     `json:"season_id"`
	Name            string     `json:"name"`
	AgeGroup        string     `json:"age_group"`
	Sport           string     `json:"sport"`
	Gender          string     `json:"gender"`
	CoachID         string     `json:"coach_id"`
	MaxPlayers      int        `json:"max_players"`
	CurrentPlayers  int        `json:"current_players"`
	RegistrationFee core.Money `json:"registration_fee"`
}

type teamResponse struct {
	ID              string     `json:"id"`
	SeasonID        string     `json:"season_id"`
	Name            string     `json:"name"`
	AgeGroup        string     `json:"age_group"`
	Sport           string     `json:"sport"`
	Gender          string     `json:"gender,omitempty"`
	CoachID         string     `json:"coach_id,omitempty"`
	MaxPlayers      int        `json:"max_players"`
	CurrentPlayers  int        `json:"current_players"`
	RegistrationFee core.Money `json:"registration_fee"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toTeamResponse(t core.Team) teamResponse {
	return teamResponse{
		ID:              t.ID,
		SeasonID:        t.SeasonID,
		Name:            t.Name,
		AgeGroup:        t.AgeGroup,
		Sport:           t.Sport,
		Gender:          t.Gender,
		CoachID:         t.CoachID,
		MaxPlayers:      t.MaxPlayers,
		CurrentPlayers:  t.CurrentPlayers,
		RegistrationFee: t.RegistrationFee,
		CreatedAt:       t.CreatedAt,
	}
}

func (req teamRequest) toTeam() core.Team {
	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = 20
	}
	return core.Team{
		SeasonID:        req.SeasonID,
		Name:            req.Name,
		AgeGroup:        req.AgeGroup,
		Sport:           req.Sport,
		Gender:          req.Gender,
		CoachID:         req.CoachID,
		MaxPlayers:      maxPlayers,
		CurrentPlayers:  req.CurrentPlayers,
		RegistrationFee: req.RegistrationFee,
	}
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.store.CreateTeam(r.Context(), req.toTeam())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamResponse(created))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context(), r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.store.GetTeam(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamResponse(team))
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	team := req.toTeam()
	team.ID = r.PathValue("id")
	if err := s.store.UpdateTeam(r.Context(), team); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetTeam(r.Context(), team.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamResponse(updated))
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTeam(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
