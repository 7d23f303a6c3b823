// Package middleware contains the HTTP middleware chain: authentication,
// trace IDs, and request metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
)

// AuthMiddleware establishes the request principal from a bearer token.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate verifies the Authorization header's bearer token and puts
// the resulting principal into the request context. It is deliberately
// pass-through: a missing or invalid token leaves the request anonymous
// and lets it continue, so the authorization policy makes the denial
// decision and protected endpoints answer 403, never 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), token)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Debug("bearer token rejected, continuing anonymous", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		principal := auth.Principal{
			Email: claims.Email,
			Roles: claims.Roles,
			Token: token,
		}
		next.ServeHTTP(w, r.WithContext(shared.WithPrincipal(r.Context(), principal)))
	})
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x"
// header. The scheme comparison is case-insensitive per RFC 7235.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
