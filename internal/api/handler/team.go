package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rosterhq/roster/internal/api/middleware"
	"github.com/rosterhq/roster/internal/api/response"
	"github.com/rosterhq/roster/internal/api/validation"
	"github.com/rosterhq/roster/internal/hero"
	"github.com/rosterhq/roster/internal/team"
)

type createTeamRequest struct {
	Name         string `json:"name"`
	Headquarters string `json:"headquarters"`
}

type updateTeamRequest struct {
	Name         *string `json:"name"`
	Headquarters *string `json:"headquarters"`
}

// teamResponse is the public team view, including the team's heroes.
type teamResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Headquarters string       `json:"headquarters"`
	Heroes       []heroPublic `json:"heroes"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

func toTeamResponse(t *team.Team, heroes []hero.Hero) teamResponse {
	members := make([]heroPublic, 0, len(heroes))
	for i := range heroes {
		members = append(members, toHeroPublic(&heroes[i]))
	}
	return teamResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		Headquarters: t.Headquarters,
		Heroes:       members,
		CreatedAt:    t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// TeamHandler handles team CRUD endpoints.
type TeamHandler struct {
	teamRepo team.Repository
	heroRepo hero.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamRepo team.Repository, heroRepo hero.Repository) *TeamHandler {
	return &TeamHandler{teamRepo: teamRepo, heroRepo: heroRepo}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:         req.Name,
		Headquarters: req.Headquarters,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t := &team.Team{
		Name:         req.Name,
		Headquarters: req.Headquarters,
	}

	if err := h.teamRepo.Create(r.Context(), t); err != nil {
		slog.Error("failed to create team", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t, nil), requestID)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.teamRepo.List(r.Context())
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		heroes, err := h.heroRepo.ListByTeam(r.Context(), teams[i].ID)
		if err != nil {
			slog.Error("failed to list team heroes", "error", err, "teamId", teams[i].ID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
			return
		}
		items = append(items, toTeamResponse(&teams[i], heroes))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /teams/{id}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.teamRepo.GetByID(r.Context(), id)
	if err != nil {
		h.respondTeamError(w, err, id, requestID)
		return
	}

	h.respondWithHeroes(w, r, t, http.StatusOK, requestID)
}

// Update handles PATCH /teams/{id}. Only fields present in the body are modified.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateTeamRequest(validation.UpdateTeamRequest{
		Name:         req.Name,
		Headquarters: req.Headquarters,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.teamRepo.Update(r.Context(), id, team.UpdateFields{
		Name:         req.Name,
		Headquarters: req.Headquarters,
	})
	if err != nil {
		h.respondTeamError(w, err, id, requestID)
		return
	}

	h.respondWithHeroes(w, r, t, http.StatusOK, requestID)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	name, err := h.teamRepo.Delete(r.Context(), id)
	if err != nil {
		h.respondTeamError(w, err, id, requestID)
		return
	}

	response.Success(w, http.StatusOK, fmt.Sprintf("team %s deleted successfully", name), requestID)
}

// DeleteAll handles DELETE /teams.
func (h *TeamHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	removed, err := h.teamRepo.DeleteAll(r.Context())
	if err != nil {
		slog.Error("failed to delete all teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete teams", requestID)
		return
	}

	response.Success(w, http.StatusOK, fmt.Sprintf("deleted %d teams", removed), requestID)
}

func (h *TeamHandler) respondWithHeroes(w http.ResponseWriter, r *http.Request, t *team.Team, status int, requestID string) {
	heroes, err := h.heroRepo.ListByTeam(r.Context(), t.ID)
	if err != nil {
		slog.Error("failed to list team heroes", "error", err, "teamId", t.ID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load team", requestID)
		return
	}

	response.Success(w, status, toTeamResponse(t, heroes), requestID)
}

func (h *TeamHandler) respondTeamError(w http.ResponseWriter, err error, id uuid.UUID, requestID string) {
	if errors.Is(err, team.ErrTeamNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
		return
	}
	slog.Error("team operation failed", "error", err, "id", id)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Team operation failed", requestID)
}

func parseTeamID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.UUID{}, false
	}
	return id, true
}
