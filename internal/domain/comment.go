package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Comment validation errors.
var (
	ErrEmptyCommentID     = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTask   = errors.New("comment task cannot be empty")
	ErrEmptyCommentAuthor = errors.New("comment author cannot be empty")
)

// Comment is a note attached to a task by a user. Task and author are
// explicit foreign-key identifiers.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment creates a comment on the given task by the given author.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	now := time.Now().UTC()
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}
	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTask
	}
	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// IsAuthor reports whether the given user wrote this comment.
func (c *Comment) IsAuthor(userID uuid.UUID) bool {
	return c.AuthorID == userID
}
