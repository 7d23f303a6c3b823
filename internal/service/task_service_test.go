package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/mocks"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

func storedUser(t *testing.T, email string, roles ...string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password123", roles)
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	return user
}

func userStoreFor(users ...*domain.User) *mocks.MockUserStore {
	return &mocks.MockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			for _, u := range users {
				if u.Email == email {
					return u, nil
				}
			}
			return nil, store.ErrUserNotFound
		},
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, store.ErrUserNotFound
		},
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	author := storedUser(t, "author@example.com", domain.RoleUser)
	assignee := storedUser(t, "assignee@example.com", domain.RoleUser)

	t.Run("stamps author and defaults status", func(t *testing.T) {
		t.Parallel()
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		var created *domain.Task
		taskStore := &mocks.MockTaskStore{
			CreateFn: func(ctx context.Context, task *domain.Task) error {
				created = task
				return nil
			},
		}
		svc := service.NewTaskService(db, taskStore, userStoreFor(author, assignee))

		task, err := svc.Create(context.Background(), author.Email, service.CreateTaskInput{
			Title:      "Fix login page",
			Priority:   domain.TaskPriorityHigh,
			AssigneeID: &assignee.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, author.ID, task.AuthorID)
		require.NotNil(t, task.AssigneeID)
		assert.Equal(t, assignee.ID, *task.AssigneeID)
	})

	t.Run("rejects unknown assignee", func(t *testing.T) {
		t.Parallel()
		db, _ := newTxDB(t)
		svc := service.NewTaskService(db, &mocks.MockTaskStore{}, userStoreFor(author))

		ghost := uuid.New()
		_, err := svc.Create(context.Background(), author.Email, service.CreateTaskInput{
			Title:      "Fix login page",
			Priority:   domain.TaskPriorityHigh,
			AssigneeID: &ghost,
		})
		assert.ErrorIs(t, err, service.ErrAssigneeNotFound)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	author := storedUser(t, "author@example.com", domain.RoleUser)

	existing, err := domain.NewTask("Old title", "old description", domain.TaskPriorityLow, author.ID, nil)
	require.NoError(t, err)
	existing.Status = domain.TaskStatusInProgress
	createdAt := existing.CreatedAt

	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	taskStore := &mocks.MockTaskStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			if id == existing.ID {
				copy := *existing
				return &copy, nil
			}
			return nil, store.ErrTaskNotFound
		},
	}
	svc := service.NewTaskService(db, taskStore, userStoreFor(author))

	updated, err := svc.Update(context.Background(), existing.ID, service.UpdateTaskInput{
		Title:       "New title",
		Description: "new description",
		Priority:    domain.TaskPriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	// Status, author, and creation time survive the update untouched.
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, author.ID, updated.AuthorID)
	assert.Equal(t, createdAt, updated.CreatedAt)
}

func TestTaskServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	author := storedUser(t, "author@example.com", domain.RoleUser)
	existing, err := domain.NewTask("Fix login page", "", domain.TaskPriorityLow, author.ID, nil)
	require.NoError(t, err)

	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	taskStore := &mocks.MockTaskStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			copy := *existing
			return &copy, nil
		},
	}
	svc := service.NewTaskService(db, taskStore, userStoreFor(author))

	updated, err := svc.UpdateStatus(context.Background(), existing.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Equal(t, existing.Title, updated.Title)
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	admin := storedUser(t, "admin@example.com", domain.RoleAdmin)
	user := storedUser(t, "user@example.com", domain.RoleUser)

	allCalled := false
	forUserID := uuid.Nil
	taskStore := &mocks.MockTaskStore{
		ListAllFn: func(ctx context.Context) ([]*domain.Task, error) {
			allCalled = true
			return nil, nil
		},
		ListForUserFn: func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
			forUserID = userID
			return nil, nil
		},
	}

	db, _ := newTxDB(t)
	svc := service.NewTaskService(db, taskStore, userStoreFor(admin, user))

	_, err := svc.List(context.Background(), auth.Principal{Email: admin.Email, Roles: admin.Roles})
	require.NoError(t, err)
	assert.True(t, allCalled)

	_, err = svc.List(context.Background(), auth.Principal{Email: user.Email, Roles: user.Roles})
	require.NoError(t, err)
	assert.Equal(t, user.ID, forUserID)
}

func TestTaskServiceFilterRestriction(t *testing.T) {
	t.Parallel()

	admin := storedUser(t, "admin@example.com", domain.RoleAdmin)
	user := storedUser(t, "user@example.com", domain.RoleUser)

	var gotFilter store.TaskFilter
	taskStore := &mocks.MockTaskStore{
		FindByFilterFn: func(ctx context.Context, filter store.TaskFilter, page store.PageRequest) ([]*domain.Task, int64, error) {
			gotFilter = filter
			return nil, 0, nil
		},
	}

	db, _ := newTxDB(t)
	svc := service.NewTaskService(db, taskStore, userStoreFor(admin, user))

	// Non-admins get the author-or-assignee restriction injected even when
	// they filtered on someone else.
	other := uuid.New()
	_, _, err := svc.Filter(context.Background(),
		auth.Principal{Email: user.Email, Roles: user.Roles},
		store.TaskFilter{AuthorID: &other},
		store.PageRequest{Size: 20})
	require.NoError(t, err)
	require.NotNil(t, gotFilter.RestrictToUser)
	assert.Equal(t, user.ID, *gotFilter.RestrictToUser)
	assert.Equal(t, &other, gotFilter.AuthorID)

	// Admins see the unrestricted filter.
	_, _, err = svc.Filter(context.Background(),
		auth.Principal{Email: admin.Email, Roles: admin.Roles},
		store.TaskFilter{},
		store.PageRequest{Size: 20})
	require.NoError(t, err)
	assert.Nil(t, gotFilter.RestrictToUser)
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	deleted := uuid.Nil
	taskStore := &mocks.MockTaskStore{
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	svc := service.NewTaskService(db, taskStore, &mocks.MockUserStore{})

	id := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, id, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
