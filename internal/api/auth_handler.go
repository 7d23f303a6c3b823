package api

import (
	"errors"
	"net/http"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userService  *service.UserService
	tokenService auth.TokenService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *service.UserService, tokenService auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			HandleAPIError(w, r, err, "Email already exists")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RegisterResponse{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.Roles,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), user)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{Token: token})
}
