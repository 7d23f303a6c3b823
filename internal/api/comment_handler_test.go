package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/api"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/mocks"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/authz"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// commentEnv mirrors taskEnv for the nested comment routes. The comment
// is written by the task's assignee so that comment-author and
// task-author checks exercise different users.
type commentEnv struct {
	admin    *domain.User
	author   *domain.User
	assignee *domain.User
	stranger *domain.User
	task     *domain.Task
	comment  *domain.Comment

	commentStore *mocks.MockCommentStore
	mock         sqlmock.Sqlmock
	router       http.Handler
}

func newCommentEnv(t *testing.T) *commentEnv {
	t.Helper()

	env := &commentEnv{}
	env.admin = newTestUser(t, "admin@example.com", domain.RoleAdmin)
	env.author = newTestUser(t, "author@example.com", domain.RoleUser)
	env.assignee = newTestUser(t, "assignee@example.com", domain.RoleUser)
	env.stranger = newTestUser(t, "stranger@example.com", domain.RoleUser)

	users := map[uuid.UUID]*domain.User{
		env.admin.ID:    env.admin,
		env.author.ID:   env.author,
		env.assignee.ID: env.assignee,
		env.stranger.ID: env.stranger,
	}

	var err error
	env.task, err = domain.NewTask("Fix login page", "details", domain.TaskPriorityHigh, env.author.ID, &env.assignee.ID)
	require.NoError(t, err)
	env.comment, err = domain.NewComment(env.task.ID, env.assignee.ID, "looking into it")
	require.NoError(t, err)

	userStore := &mocks.MockUserStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			if user, ok := users[id]; ok {
				return user, nil
			}
			return nil, store.ErrUserNotFound
		},
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			for _, user := range users {
				if user.Email == email {
					return user, nil
				}
			}
			return nil, store.ErrUserNotFound
		},
	}
	taskStore := &mocks.MockTaskStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			if id == env.task.ID {
				copy := *env.task
				return &copy, nil
			}
			return nil, store.ErrTaskNotFound
		},
	}
	env.commentStore = &mocks.MockCommentStore{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
			if id == env.comment.ID {
				copy := *env.comment
				return &copy, nil
			}
			return nil, store.ErrCommentNotFound
		},
	}

	db, mock := newTxDB(t)
	env.mock = mock

	policy, err := authz.NewPolicy(userStore, taskStore, env.commentStore)
	require.NoError(t, err)

	commentService := service.NewCommentService(db, env.commentStore, taskStore, userStore)
	handler := api.NewCommentHandler(commentService, policy)

	r := chi.NewRouter()
	r.Route("/api/tasks/{taskId}/comments", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Put("/{commentId}", handler.Update)
		r.Delete("/{commentId}", handler.Delete)
	})
	env.router = r
	return env
}

func (env *commentEnv) commentsPath() string {
	return "/api/tasks/" + env.task.ID.String() + "/comments"
}

func TestCommentCreateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("task author comments", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.mock.ExpectBegin()
		env.mock.ExpectCommit()

		rec := doRequest(t, env.router, http.MethodPost, env.commentsPath(), principalFor(env.author), map[string]interface{}{
			"content": "please prioritize",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var comment domain.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
		assert.Equal(t, env.task.ID, comment.TaskID)
		assert.Equal(t, env.author.ID, comment.AuthorID)
	})

	t.Run("stranger answers 403", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)

		rec := doRequest(t, env.router, http.MethodPost, env.commentsPath(), principalFor(env.stranger), map[string]interface{}{
			"content": "drive-by",
		})

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing task answers 404", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)

		rec := doRequest(t, env.router, http.MethodPost,
			"/api/tasks/"+uuid.New().String()+"/comments", principalFor(env.admin), map[string]interface{}{
				"content": "anyone home",
			})

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty content answers 400 with field map", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)

		rec := doRequest(t, env.router, http.MethodPost, env.commentsPath(), principalFor(env.author), map[string]interface{}{
			"content": "",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeErrorBody(t, rec)
		fields, ok := body["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "content")
	})
}

func TestCommentUpdateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("task participant edits content", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.mock.ExpectBegin()
		env.mock.ExpectCommit()

		rec := doRequest(t, env.router, http.MethodPut,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.assignee), map[string]interface{}{
				"content": "resolved",
			})

		require.Equal(t, http.StatusOK, rec.Code)

		var comment domain.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
		assert.Equal(t, "resolved", comment.Content)
	})

	t.Run("comment on another task answers 400", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.comment.TaskID = uuid.New()

		rec := doRequest(t, env.router, http.MethodPut,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.author), map[string]interface{}{
				"content": "resolved",
			})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeErrorBody(t, rec)
		assert.Equal(t, "Comment does not belong to this task", body["message"])
	})

	t.Run("stranger answers 403", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)

		rec := doRequest(t, env.router, http.MethodPut,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.stranger), map[string]interface{}{
				"content": "resolved",
			})

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCommentDeleteEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("comment author answers 204", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.mock.ExpectBegin()
		env.mock.ExpectCommit()

		rec := doRequest(t, env.router, http.MethodDelete,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.assignee), nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("task author who did not write it answers 403", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)

		rec := doRequest(t, env.router, http.MethodDelete,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.author), nil)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin answers 204", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.mock.ExpectBegin()
		env.mock.ExpectCommit()

		rec := doRequest(t, env.router, http.MethodDelete,
			env.commentsPath()+"/"+env.comment.ID.String(), principalFor(env.admin), nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestCommentListEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("lists comments for participants", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.commentStore.ListByTaskFn = func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
			return []*domain.Comment{env.comment}, nil
		}

		rec := doRequest(t, env.router, http.MethodGet, env.commentsPath(), principalFor(env.author), nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var comments []*domain.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
		assert.Len(t, comments, 1)
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		t.Parallel()
		env := newCommentEnv(t)
		env.commentStore.ListByTaskFn = func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
			return nil, nil
		}

		rec := doRequest(t, env.router, http.MethodGet, env.commentsPath(), principalFor(env.stranger), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, env.router, http.MethodGet, env.commentsPath(), principalFor(env.assignee), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}
