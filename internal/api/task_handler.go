package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/authz"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// Paging defaults for the filter endpoint.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TaskHandler handles task API requests. Every handler authorizes the
// request against the policy before touching the task service.
type TaskHandler struct {
	taskService *service.TaskService
	policy      *authz.Policy
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService *service.TaskService, policy *authz.Policy) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		policy:      policy,
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := getPrincipal(r)
	if err := h.policy.Authorize(r.Context(), principal, authz.OpTaskCreate, uuid.Nil); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	priority, err := domain.ParseTaskPriority(req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Create(r.Context(), principal.Email, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Get handles GET /api/tasks/{taskId}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpTaskGet, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{taskId}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpTaskUpdate, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	priority, err := domain.ParseTaskPriority(req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Update(r.Context(), taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateStatus handles PUT /api/tasks/{taskId}/status?status=...
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpTaskStatusUpdate, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status, err := domain.ParseTaskStatus(r.URL.Query().Get("status"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), taskID, status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{taskId}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "taskId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.policy.Authorize(r.Context(), getPrincipal(r), authz.OpTaskDelete, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// List handles GET /api/tasks. Admins see every task; everyone else sees
// tasks they authored or are assigned to.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := getPrincipal(r)
	if err := h.policy.Authorize(r.Context(), principal, authz.OpTaskList, uuid.Nil); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.List(r.Context(), principal)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Filter handles GET /api/tasks/filter with optional status, priority,
// authorId, and assigneeId criteria plus page/size/sort parameters.
func (h *TaskHandler) Filter(w http.ResponseWriter, r *http.Request) {
	principal := getPrincipal(r)
	if err := h.policy.Authorize(r.Context(), principal, authz.OpTaskList, uuid.Nil); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page := parsePageRequest(r)

	tasks, total, err := h.taskService.Filter(r.Context(), principal, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPageResponse(tasks, page.Page, page.Size, total))
}

// parseTaskFilter builds the store filter from the query string. Unknown
// status or priority values and malformed UUIDs are rejected; absent
// parameters simply don't constrain the query.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		status, err := domain.ParseTaskStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority, err := domain.ParseTaskPriority(v)
		if err != nil {
			return filter, err
		}
		filter.Priority = &priority
	}
	if v := q.Get("authorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("authorId", "has invalid format", domain.ErrInvalidID)
		}
		filter.AuthorID = &id
	}
	if v := q.Get("assigneeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("assigneeId", "has invalid format", domain.ErrInvalidID)
		}
		filter.AssigneeID = &id
	}

	return filter, nil
}

// parsePageRequest reads page, size, and sort from the query string.
// Out-of-range values fall back to defaults rather than erroring; the
// sort field is whitelisted again at the store, so an unknown field just
// yields the default ordering.
func parsePageRequest(r *http.Request) store.PageRequest {
	q := r.URL.Query()

	page := 0
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}

	size := defaultPageSize
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		size = v
		if size > maxPageSize {
			size = maxPageSize
		}
	}

	sortField := "createdAt"
	sortDir := store.SortDesc
	if sort := q.Get("sort"); sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		if parts[0] != "" {
			sortField = parts[0]
		}
		if len(parts) == 2 && strings.EqualFold(parts[1], "asc") {
			sortDir = store.SortAsc
		}
	}

	return store.PageRequest{
		Page:      page,
		Size:      size,
		SortField: sortField,
		SortDir:   sortDir,
	}
}
