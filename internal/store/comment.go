package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// CommentStore defines the interface for comment data persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its unique ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// Update persists the comment's current field values.
	// Returns ErrCommentNotFound if the comment does not exist.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByTask returns all comments on the given task, oldest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)

	// WithTx returns a new CommentStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CommentStore
}
