package api

import (
	"net/http"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/authz"
)

// CommentHandler handles comment API requests. All routes are nested
// under a task: /api/tasks/{taskId}/comments.
type CommentHandler struct {
	commentService *service.CommentService
	policy         *authz.Policy
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(commentService *service.CommentService, policy *authz.Policy) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		policy:         policy,
	}
}

// Create handles POST /api/tasks/{taskId}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	principal := getPrincipal(r)
	if err := h.policy.Authorize(r.Context(), principal, authz.OpCommentCreate, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), taskID, principal.Email, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comment)
}

// Update handles PUT /api/tasks/{taskId}/comments/{commentId}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	commentID, err := getPathUUID(r, "commentId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpCommentUpdate, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), taskID, commentID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comment)
}

// Delete handles DELETE /api/tasks/{taskId}/comments/{commentId}. The
// ownership predicate is keyed on the comment, not the task.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	commentID, err := getPathUUID(r, "commentId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpCommentDelete, commentID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.commentService.Delete(r.Context(), taskID, commentID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// List handles GET /api/tasks/{taskId}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpCommentList, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comments, err := h.commentService.ListByTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}
