package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
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

type createHeroRequest struct {
	Name       string  `json:"name"`
	SecretName string  `json:"secret_name"`
	Password   string  `json:"password"`
	Age        *int    `json:"age"`
	TeamID     *string `json:"team_id"`
}

type updateHeroRequest struct {
	Name       *string `json:"name"`
	SecretName *string `json:"secret_name"`
	Password   *string `json:"password"`
	Age        *int    `json:"age"`
	TeamID     *string `json:"team_id"`
}

// heroPublic is the public hero view. The secret name and password hash
// are never exposed.
type heroPublic struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Age       *int    `json:"age"`
	TeamID    *string `json:"team_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// teamPublic is the team view nested in hero responses.
type teamPublic struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Headquarters string `json:"headquarters"`
}

// heroResponse is the public hero view including its team, if any.
type heroResponse struct {
	heroPublic
	Team *teamPublic `json:"team"`
}

func toHeroPublic(h *hero.Hero) heroPublic {
	resp := heroPublic{
		ID:        h.ID.String(),
		Name:      h.Name,
		Age:       h.Age,
		CreatedAt: h.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: h.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if h.TeamID != nil {
		tid := h.TeamID.String()
		resp.TeamID = &tid
	}
	return resp
}

func toHeroResponse(h *hero.Hero, t *team.Team) heroResponse {
	resp := heroResponse{heroPublic: toHeroPublic(h)}
	if t != nil {
		resp.Team = &teamPublic{
			ID:           t.ID.String(),
			Name:         t.Name,
			Headquarters: t.Headquarters,
		}
	}
	return resp
}

// HeroHandler handles hero CRUD endpoints.
type HeroHandler struct {
	heroRepo hero.Repository
	heroSvc  *hero.Service
	teamRepo team.Repository
}

// NewHeroHandler creates a new HeroHandler.
func NewHeroHandler(heroRepo hero.Repository, heroSvc *hero.Service, teamRepo team.Repository) *HeroHandler {
	return &HeroHandler{
		heroRepo: heroRepo,
		heroSvc:  heroSvc,
		teamRepo: teamRepo,
	}
}

// Create handles POST /heroes.
func (h *HeroHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createHeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateHeroRequest(validation.CreateHeroRequest{
		Name:       req.Name,
		SecretName: req.SecretName,
		Password:   req.Password,
		Age:        req.Age,
		TeamID:     req.TeamID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var t *team.Team
	var teamID *uuid.UUID
	if req.TeamID != nil {
		id, _ := uuid.Parse(*req.TeamID) // already validated

		var err error
		t, err = h.teamRepo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, team.ErrTeamNotFound) {
				response.Err(w, http.StatusNotFound, "TEAM_NOT_FOUND", "Team not found", requestID)
				return
			}
			slog.Error("failed to get team", "error", err, "teamId", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create hero", requestID)
			return
		}
		teamID = &id
	}

	hash, err := h.heroSvc.HashPassword(r.Context(), req.Password, nil)
	if err != nil {
		if errors.Is(err, hero.ErrPasswordTaken) {
			response.Err(w, http.StatusConflict, "DUPLICATE_PASSWORD", "Password already taken", requestID)
			return
		}
		slog.Error("failed to hash password", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create hero", requestID)
		return
	}

	created := &hero.Hero{
		Name:           req.Name,
		Age:            req.Age,
		SecretName:     req.SecretName,
		HashedPassword: hash,
		TeamID:         teamID,
	}

	if err := h.heroRepo.Create(r.Context(), created); err != nil {
		slog.Error("failed to create hero", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create hero", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toHeroResponse(created, t), requestID)
}

// List handles GET /heroes.
func (h *HeroHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	heroes, err := h.heroRepo.List(r.Context())
	if err != nil {
		slog.Error("failed to list heroes", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list heroes", requestID)
		return
	}

	teams := map[uuid.UUID]*team.Team{}
	items := make([]heroResponse, 0, len(heroes))
	for i := range heroes {
		hr := &heroes[i]

		var t *team.Team
		if hr.TeamID != nil {
			cached, ok := teams[*hr.TeamID]
			if !ok {
				cached, err = h.teamRepo.GetByID(r.Context(), *hr.TeamID)
				if err != nil {
					slog.Error("failed to get hero team", "error", err, "teamId", *hr.TeamID)
					response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list heroes", requestID)
					return
				}
				teams[*hr.TeamID] = cached
			}
			t = cached
		}

		items = append(items, toHeroResponse(hr, t))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /heroes/{id}.
func (h *HeroHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseHeroID(w, r, requestID)
	if !ok {
		return
	}

	hr, err := h.heroRepo.GetByID(r.Context(), id)
	if err != nil {
		h.respondHeroError(w, err, id, requestID)
		return
	}

	h.respondWithTeam(w, r, hr, http.StatusOK, requestID)
}

// Update handles PATCH /heroes/{id}. Only fields present in the body are
// modified; an explicit null team_id clears the team assignment, and a
// password field changes the stored password.
func (h *HeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseHeroID(w, r, requestID)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var req updateHeroRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	// A nil TeamID pointer cannot distinguish an absent team_id from an
	// explicit null, so check the raw keys for a clear request.
	var rawFields map[string]json.RawMessage
	if err := json.Unmarshal(body, &rawFields); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	_, teamFieldPresent := rawFields["team_id"]
	clearTeam := teamFieldPresent && req.TeamID == nil

	fieldErrors := validation.ValidateUpdateHeroRequest(validation.UpdateHeroRequest{
		Name:       req.Name,
		SecretName: req.SecretName,
		Password:   req.Password,
		Age:        req.Age,
		TeamID:     req.TeamID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	fields := hero.UpdateFields{
		Name:       req.Name,
		SecretName: req.SecretName,
		Age:        req.Age,
		ClearTeam:  clearTeam,
	}

	if req.TeamID != nil {
		teamID, _ := uuid.Parse(*req.TeamID) // already validated
		if _, err := h.teamRepo.GetByID(r.Context(), teamID); err != nil {
			if errors.Is(err, team.ErrTeamNotFound) {
				response.Err(w, http.StatusNotFound, "TEAM_NOT_FOUND", "Team not found", requestID)
				return
			}
			slog.Error("failed to get team", "error", err, "teamId", teamID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update hero", requestID)
			return
		}
		fields.TeamID = &teamID
	}

	if req.Password != nil {
		hash, err := h.heroSvc.HashPassword(r.Context(), *req.Password, &id)
		if err != nil {
			if errors.Is(err, hero.ErrPasswordTaken) {
				response.Err(w, http.StatusConflict, "DUPLICATE_PASSWORD", "Password already taken", requestID)
				return
			}
			slog.Error("failed to hash password", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update hero", requestID)
			return
		}
		fields.HashedPassword = &hash
	}

	hr, err := h.heroRepo.Update(r.Context(), id, fields)
	if err != nil {
		h.respondHeroError(w, err, id, requestID)
		return
	}

	h.respondWithTeam(w, r, hr, http.StatusOK, requestID)
}

// Delete handles DELETE /heroes/{id}.
func (h *HeroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseHeroID(w, r, requestID)
	if !ok {
		return
	}

	name, err := h.heroRepo.Delete(r.Context(), id)
	if err != nil {
		h.respondHeroError(w, err, id, requestID)
		return
	}

	response.Success(w, http.StatusOK, fmt.Sprintf("hero %s deleted", name), requestID)
}

// DeleteAll handles DELETE /heroes.
func (h *HeroHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	removed, err := h.heroRepo.DeleteAll(r.Context())
	if err != nil {
		slog.Error("failed to delete all heroes", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete heroes", requestID)
		return
	}

	response.Success(w, http.StatusOK, fmt.Sprintf("deleted %d heroes", removed), requestID)
}

func (h *HeroHandler) respondWithTeam(w http.ResponseWriter, r *http.Request, hr *hero.Hero, status int, requestID string) {
	var t *team.Team
	if hr.TeamID != nil {
		var err error
		t, err = h.teamRepo.GetByID(r.Context(), *hr.TeamID)
		if err != nil {
			slog.Error("failed to get hero team", "error", err, "teamId", *hr.TeamID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load hero", requestID)
			return
		}
	}

	response.Success(w, status, toHeroResponse(hr, t), requestID)
}

func (h *HeroHandler) respondHeroError(w http.ResponseWriter, err error, id uuid.UUID, requestID string) {
	if errors.Is(err, hero.ErrHeroNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Hero not found", requestID)
		return
	}
	slog.Error("hero operation failed", "error", err, "id", id)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Hero operation failed", requestID)
}

func parseHeroID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.UUID{}, false
	}
	return id, true
}
