// Package shared holds the request/response plumbing used by every
// handler: JSON encoding, the error body shape, request validation, and
// the context keys for the principal and trace ID.
package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorResponse is the error body returned by every endpoint: the
// numeric status, its standard reason phrase, a human-readable message,
// and the response timestamp. Validation failures additionally carry a
// field-to-message map.
type ErrorResponse struct {
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Fields    map[string]string `json:"fields,omitempty"`
	TraceID   string            `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes the standard error body with the given status
// code and message, tagged with the request's trace ID when one exists.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondError(w, r, status, message, nil)
}

// RespondWithValidationError writes a 400 error body carrying the
// field-to-message map of a failed validation.
func RespondWithValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	respondError(w, r, http.StatusBadRequest, "Validation failed", fields)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	traceID := GetTraceID(r.Context())

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC(),
		Fields:    fields,
		TraceID:   traceID,
	})
}
