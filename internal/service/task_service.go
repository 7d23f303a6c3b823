package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CreateTaskInput carries the fields a caller may set when creating a
// task. Status is not among them: new tasks always start as PENDING and
// the author is stamped from the request principal.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	AssigneeID  *uuid.UUID
}

// UpdateTaskInput carries the fields a caller may change on an existing
// task. Status, author, and creation time are preserved; status only
// moves through the admin status update.
type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	AssigneeID  *uuid.UUID
}

// TaskService handles the task lifecycle.
type TaskService struct {
	db        *sql.DB
	taskStore store.TaskStore
	userStore store.UserStore
}

// NewTaskService creates a TaskService.
func NewTaskService(db *sql.DB, taskStore store.TaskStore, userStore store.UserStore) *TaskService {
	return &TaskService{
		db:        db,
		taskStore: taskStore,
		userStore: userStore,
	}
}

// Create creates a task authored by the principal identified by
// authorEmail. The assignee, when given, must be an existing user;
// a dangling assignee ID is rejected as ErrAssigneeNotFound.
func (s *TaskService) Create(ctx context.Context, authorEmail string, in CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	author, err := s.userStore.GetByEmail(ctx, authorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(in.Title, in.Description, in.Priority, author.ID, in.AssigneeID)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created", "task_id", task.ID, "author_id", author.ID)
	return task, nil
}

// GetByID retrieves a task.
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id)
}

// Update applies the input to an existing task. Only title, description,
// priority, and assignee change; status, author, and creation time are
// carried over from the stored task.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Priority = in.Priority
	task.AssigneeID = in.AssigneeID

	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus moves a task to the given status. This is the only
// transition path; the general update never touches status.
func (s *TaskService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task status updated", "task_id", task.ID, "status", status)
	return task, nil
}

// Delete removes a task and its comments.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Delete(ctx, id)
	})
}

// List returns the tasks visible to the principal: every task for ADMIN
// callers, otherwise only tasks where the caller is author or assignee.
func (s *TaskService) List(ctx context.Context, principal auth.Principal) ([]*domain.Task, error) {
	if principal.HasRole(domain.RoleAdmin) {
		return s.taskStore.ListAll(ctx)
	}

	user, err := s.userStore.GetByEmail(ctx, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return s.taskStore.ListForUser(ctx, user.ID)
}

// Filter returns one page of tasks matching the filter, plus the total
// match count. Non-admin callers have the filter intersected with an
// author-or-assignee restriction regardless of what they asked for.
func (s *TaskService) Filter(ctx context.Context, principal auth.Principal, filter store.TaskFilter, page store.PageRequest) ([]*domain.Task, int64, error) {
	if !principal.HasRole(domain.RoleAdmin) {
		user, err := s.userStore.GetByEmail(ctx, principal.Email)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve principal: %w", err)
		}
		filter.RestrictToUser = &user.ID
	}

	return s.taskStore.FindByFilter(ctx, filter, page)
}

// checkAssignee verifies an optional assignee reference points at an
// existing user.
func (s *TaskService) checkAssignee(ctx context.Context, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := s.userStore.GetByID(ctx, *assigneeID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	return nil
}
