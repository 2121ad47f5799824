package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rosterhq/roster/internal/api/response"
	"github.com/rosterhq/roster/internal/auth"
)

const userKey contextKey = "user"

// Auth is middleware that extracts the Bearer token from the Authorization
// header and resolves it to a user via the auth service. Missing or invalid
// tokens and disabled users are rejected with 400, matching the token
// endpoint's error model.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Err(w, http.StatusBadRequest, "INVALID_TOKEN", "Bearer token is required", requestID)
				return
			}

			u, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken):
					response.Err(w, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired token", requestID)
				case errors.Is(err, auth.ErrUserDisabled):
					response.Err(w, http.StatusBadRequest, "USER_DISABLED", "User is disabled", requestID)
				default:
					response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(ctx context.Context) *auth.User {
	if u, ok := ctx.Value(userKey).(*auth.User); ok {
		return u
	}
	return nil
}
