package api

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/service/authz"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This keeps internal error types and
// messages out of client responses.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Bad login credentials are the one case that answers 401; every
	// other denial on a protected path is a 403.
	case errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, authz.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Duplicate email is reported as a rejected request body.
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrAssigneeNotFound),
		errors.Is(err, service.ErrCommentTaskMismatch),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, domain.ErrTaskTitleTooLong),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyRoles),
		errors.As(err, &validationErr):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		return "Invalid credentials"

	case errors.Is(err, authz.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return "Access denied"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrAssigneeNotFound):
		return "Assignee does not exist"
	case errors.Is(err, service.ErrCommentTaskMismatch):
		return "Comment does not belong to this task"

	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid task status"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "Invalid task priority"
	case errors.As(err, &validationErr):
		return "Invalid " + validationErr.Field

	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err, using userMessage
// when given and the safe mapped message otherwise.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithError(w, r, status, userMessage)
}

// ValidationFieldMap converts a validator error into a field-to-message
// map for the 400 response body. Non-validator errors yield nil.
func ValidationFieldMap(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe.Field())] = validationTagMessage(fe.Tag())
	}
	return fields
}

// jsonFieldName lowercases the leading rune of a struct field name so
// the error map matches the JSON casing clients sent.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// validationTagMessage maps validation tags to user-friendly messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
