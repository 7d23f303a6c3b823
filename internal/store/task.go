package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskFilter restricts a task query. Nil fields are ignored.
type TaskFilter struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	AuthorID   *uuid.UUID
	AssigneeID *uuid.UUID

	// RestrictToUser, when set, intersects the filter with
	// "author or assignee is this user". Applied for non-admin callers.
	RestrictToUser *uuid.UUID
}

// SortDirection orders a paged query.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// PageRequest describes pagination and ordering for a filtered query.
// Page numbering starts at zero.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	SortDir   SortDirection
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the task's current field values.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its comments.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListForUser returns all tasks where the user is author or assignee,
	// newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListAll returns every task, newest first. Used for the admin listing.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// FindByFilter returns one page of tasks matching the filter along
	// with the total number of matching rows.
	FindByFilter(ctx context.Context, filter TaskFilter, page PageRequest) ([]*domain.Task, int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
