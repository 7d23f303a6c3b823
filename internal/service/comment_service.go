package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CommentService handles the comment lifecycle. Every operation is
// scoped to a task: the parent task must exist, and update and delete
// both reject a comment that belongs to a different task than the one
// named in the URL path.
type CommentService struct {
	db           *sql.DB
	commentStore store.CommentStore
	taskStore    store.TaskStore
	userStore    store.UserStore
}

// NewCommentService creates a CommentService.
func NewCommentService(db *sql.DB, commentStore store.CommentStore, taskStore store.TaskStore, userStore store.UserStore) *CommentService {
	return &CommentService{
		db:           db,
		commentStore: commentStore,
		taskStore:    taskStore,
		userStore:    userStore,
	}
}

// Create adds a comment on the given task, authored by the principal
// identified by authorEmail.
func (s *CommentService) Create(ctx context.Context, taskID uuid.UUID, authorEmail, content string) (*domain.Comment, error) {
	log := logger.FromContext(ctx)

	if _, err := s.taskStore.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	author, err := s.userStore.GetByEmail(ctx, authorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	comment, err := domain.NewComment(taskID, author.ID, content)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.commentStore.WithTx(tx).Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	log.Info("comment created", "comment_id", comment.ID, "task_id", taskID)
	return comment, nil
}

// GetByID retrieves a comment.
func (s *CommentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return s.commentStore.GetByID(ctx, id)
}

// Update replaces a comment's content. The comment must belong to the
// task named in the path; reattaching a comment to another task is not a
// thing this API does.
func (s *CommentService) Update(ctx context.Context, taskID, commentID uuid.UUID, content string) (*domain.Comment, error) {
	comment, err := s.loadForTask(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.commentStore.WithTx(tx).Update(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment, after checking it belongs to the task in the
// path just like Update does.
func (s *CommentService) Delete(ctx context.Context, taskID, commentID uuid.UUID) error {
	if _, err := s.loadForTask(ctx, taskID, commentID); err != nil {
		return err
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.commentStore.WithTx(tx).Delete(ctx, commentID)
	})
}

// ListByTask returns the task's comments, oldest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.taskStore.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.commentStore.ListByTask(ctx, taskID)
}

// loadForTask fetches a comment and verifies its parent task matches the
// path. A mismatch is a bad request, not a missing resource: the comment
// exists, the caller just addressed it through the wrong task.
func (s *CommentService) loadForTask(ctx context.Context, taskID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentStore.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.TaskID != taskID {
		return nil, ErrCommentTaskMismatch
	}
	return comment, nil
}
