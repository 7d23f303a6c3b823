package api

import (
	"github.com/google/uuid"
)

// RegisterRequest holds the registration endpoint's request body.
// Roles are optional; an empty set defaults to USER.
type RegisterRequest struct {
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,required"`
}

// RegisterResponse is returned on successful registration. The password
// hash never leaves the server.
type RegisterResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Roles []string  `json:"roles"`
}

// LoginRequest holds the login endpoint's request body.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed JWT issued for a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// TaskRequest is the body for both task creation and task update.
// Status is deliberately absent: creation always starts at PENDING and
// transitions only happen through the status update endpoint.
type TaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=100"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"    validate:"required,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

// CommentRequest is the body for comment creation and update.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// PageResponse is the envelope for paged task listings.
type PageResponse struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
}

// NewPageResponse assembles the paging envelope from one page of content
// and the total match count.
func NewPageResponse(content interface{}, page, size int, total int64) PageResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PageResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
