package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rosterhq/roster/internal/api/middleware"
	"github.com/rosterhq/roster/internal/api/response"
	"github.com/rosterhq/roster/internal/auth"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Disabled bool   `json:"disabled"`
}

// AuthHandler handles the token and current-user endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token handles POST /token. Credentials arrive form-encoded.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseForm(); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_FORM", "Request body must be form-encoded", requestID)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required", requestID)
		return
	}

	token, err := h.authService.IssueToken(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			response.Err(w, http.StatusBadRequest, "BAD_CREDENTIALS", "Incorrect username or password", requestID)
			return
		}
		slog.Error("failed to issue token", "error", err, "username", username)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", requestID)
		return
	}

	response.Success(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, requestID)
}

// Me handles GET /users/me. The Auth middleware has already resolved the
// bearer token to a user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	u := middleware.GetUser(r.Context())
	if u == nil {
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "No authenticated user in context", requestID)
		return
	}

	response.Success(w, http.StatusOK, userResponse{
		Username: u.Username,
		FullName: u.FullName,
		Disabled: u.Disabled,
	}, requestID)
}
