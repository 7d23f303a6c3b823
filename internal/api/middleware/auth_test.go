package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/api/middleware"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func newTokenService(t *testing.T) auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		TokenValidityMS: 86400000,
		BcryptCost:      bcrypt.MinCost,
	})
	require.NoError(t, err)
	return svc
}

// capturePrincipal returns a terminal handler that records the principal
// the middleware left in the request context. An anonymous request shows
// up as the zero principal.
func capturePrincipal(principal *auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*principal = shared.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassThrough(t *testing.T) {
	t.Parallel()

	tokenService := newTokenService(t)
	mw := middleware.NewAuthMiddleware(tokenService)

	user, err := domain.NewUser("alice@example.com", "password123", []string{domain.RoleUser, domain.RoleAdmin})
	require.NoError(t, err)
	validToken, err := tokenService.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantPrincipal bool
	}{
		{name: "no header stays anonymous", authorization: "", wantPrincipal: false},
		{name: "non-bearer scheme stays anonymous", authorization: "Basic dXNlcjpwdw==", wantPrincipal: false},
		{name: "garbage token stays anonymous", authorization: "Bearer not.a.jwt", wantPrincipal: false},
		{name: "empty bearer stays anonymous", authorization: "Bearer ", wantPrincipal: false},
		{name: "valid token sets principal", authorization: "Bearer " + validToken, wantPrincipal: true},
		{name: "scheme is case-insensitive", authorization: "bearer " + validToken, wantPrincipal: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var principal auth.Principal
			handler := mw.Authenticate(capturePrincipal(&principal))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// Pass-through in every case: the middleware never writes a
			// response of its own.
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.wantPrincipal, principal.Email != "")

			if tc.wantPrincipal {
				assert.Equal(t, "alice@example.com", principal.Email)
				assert.Equal(t, []string{domain.RoleUser, domain.RoleAdmin}, principal.Roles)
				assert.NotEmpty(t, principal.Token)
			}
		})
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	tokenService := newTokenService(t)
	mw := middleware.NewAuthMiddleware(tokenService)

	user, err := domain.NewUser("alice@example.com", "password123", []string{domain.RoleUser})
	require.NoError(t, err)
	token, err := tokenService.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	// Flip the last signature byte.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	var principal auth.Principal
	handler := mw.Authenticate(capturePrincipal(&principal))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tampered)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, principal.Email)
}
