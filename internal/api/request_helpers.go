package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
)

// getPrincipal returns the request's principal. Requests that carried no
// valid token come back anonymous; the authorization policy turns that
// into a 403 on protected operations.
func getPrincipal(r *http.Request) auth.Principal {
	return shared.GetPrincipal(r.Context())
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// decodeAndValidate decodes the JSON body into v and runs struct
// validation, writing the 400 response itself on failure. Returns false
// when the caller should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		if fields := ValidationFieldMap(err); fields != nil {
			shared.RespondWithValidationError(w, r, fields)
		} else {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed")
		}
		return false
	}
	return true
}
