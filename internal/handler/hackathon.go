package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/service"
)

// HackathonHandler serves the hackathon pages: listing, registration, teams
// and project submissions.
type HackathonHandler struct {
	svc    *service.HackathonService
	logger *slog.Logger
}

func NewHackathonHandler(svc *service.HackathonService, logger *slog.Logger) *HackathonHandler {
	return &HackathonHandler{svc: svc, logger: logger}
}

// HandleList returns hackathons, optionally filtered by status.
//
// HTTP: GET /api/hackathons?status=live
func (h *HackathonHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hackathons, err := h.svc.ListHackathons(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hackathons)
}

// HandleGet returns a single hackathon.
//
// HTTP: GET /api/hackathons/{id}
func (h *HackathonHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.svc.GetHackathon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hackathon)
}

// HandleListTeams returns the teams of a hackathon, for the "join a team" picker.
//
// HTTP: GET /api/hackathons/{id}/teams
func (h *HackathonHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.ListTeams(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleRegister signs a participant up.
//
// HTTP: POST /api/hackathons/{id}/registrations
// REQUEST BODY: {"name": "Alice", "email": "alice@x.com", "age": 12, "looking_for_team": true}
func (h *HackathonHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	values, source, err := decodeForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.svc.Register(r.Context(), chi.URLParam(r, "id"), values, source)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleCreateTeam creates a team.
//
// HTTP: POST /api/hackathons/{id}/teams
// REQUEST BODY: {"name": "Alpha", "creator_email": "alice@x.com"}
func (h *HackathonHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	values, source, err := decodeForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.svc.CreateTeam(r.Context(), chi.URLParam(r, "id"), values, source)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleSubmit records a team's project.
//
// HTTP: POST /api/hackathons/{id}/submissions
// REQUEST BODY: {"team_id": "...", "project_name": "Plant Pal", "description": "...",
//
//	"repo_url": "https://...", "technologies": ["Python", "micro:bit"]}
func (h *HackathonHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	values, source, err := decodeForm(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"), values, source)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type joinTeamRequest struct {
	TeamID string `json:"teamId"`
}

// HandleJoinTeam moves a registration into a team.
//
// HTTP: PUT /api/registrations/{id}/team
// REQUEST BODY: {"teamId": "..."}
func (h *HackathonHandler) HandleJoinTeam(w http.ResponseWriter, r *http.Request) {
	var req joinTeamRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("", "Invalid JSON body."))
		return
	}

	reg, err := h.svc.JoinTeam(r.Context(), chi.URLParam(r, "id"), req.TeamID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}
