package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CommentStore implements store.CommentStore using PostgreSQL.
type CommentStore struct {
	db store.DBTX
}

// NewCommentStore creates a new PostgreSQL implementation of
// store.CommentStore.
func NewCommentStore(db store.DBTX) *CommentStore {
	return &CommentStore{db: db}
}

// Ensure CommentStore implements store.CommentStore.
var _ store.CommentStore = (*CommentStore)(nil)

const commentColumns = "id, task_id, author_id, content, created_at, updated_at"

// Create implements store.CommentStore.Create.
func (s *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContext(ctx)

	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create comment", "error", err, "comment_id", comment.ID)
		return fmt.Errorf("failed to create comment: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.CommentStore.GetByID.
func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", MapError(err))
	}
	return comment, nil
}

// Update implements store.CommentStore.Update. Only the content is
// mutable; task and author bindings are fixed at creation.
func (s *CommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContext(ctx)

	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	comment.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		log.Error("failed to update comment", "error", err, "comment_id", comment.ID)
		return fmt.Errorf("failed to update comment: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// Delete implements store.CommentStore.Delete.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment", "error", err, "comment_id", id)
		return fmt.Errorf("failed to delete comment: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// ListByTask implements store.CommentStore.ListByTask.
func (s *CommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// WithTx implements store.CommentStore.WithTx.
func (s *CommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &CommentStore{db: tx}
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
