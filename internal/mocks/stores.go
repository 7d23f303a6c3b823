// Package mocks provides hand-written store mocks for testing. Each
// mock delegates to an optional function field and falls back to a
// not-found or no-op default, so tests only stub what they use.
package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	ListForUserFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	ListAllFn      func(ctx context.Context) ([]*domain.Task, error)
	FindByFilterFn func(ctx context.Context, filter store.TaskFilter, page store.PageRequest) ([]*domain.Task, int64, error)
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *MockTaskStore) FindByFilter(ctx context.Context, filter store.TaskFilter, page store.PageRequest) ([]*domain.Task, int64, error) {
	if m.FindByFilterFn != nil {
		return m.FindByFilterFn(ctx, filter, page)
	}
	return nil, 0, nil
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

// MockCommentStore implements store.CommentStore for testing.
type MockCommentStore struct {
	CreateFn     func(ctx context.Context, comment *domain.Comment) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	UpdateFn     func(ctx context.Context, comment *domain.Comment) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	ListByTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)
}

var _ store.CommentStore = (*MockCommentStore)(nil)

func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}
	return nil
}

func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCommentNotFound
}

func (m *MockCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, comment)
	}
	return nil
}

func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}
	return nil, nil
}

func (m *MockCommentStore) WithTx(tx *sql.Tx) store.CommentStore { return m }
