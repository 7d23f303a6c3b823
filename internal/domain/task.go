package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task. New tasks always start as
// PENDING; transitions only happen through the admin-gated status update.
type TaskStatus string

// Known task statuses.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus converts a string into a TaskStatus.
// Returns ErrInvalidStatus for unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// TaskPriority is the urgency classification of a task.
type TaskPriority string

// Known task priorities.
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// ParseTaskPriority converts a string into a TaskPriority.
// Returns ErrInvalidPriority for unknown values.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Task validation errors.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 100 characters")
	ErrEmptyTaskAuthor  = errors.New("task author cannot be empty")
)

// Task represents a unit of work with an author and an optional assignee.
// Author and assignee are explicit foreign-key identifiers; related user
// data is loaded with an explicit lookup when needed, never through a live
// object reference.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AuthorID    uuid.UUID    `json:"author_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a task authored by the given user. Status always starts
// as PENDING; the only path to another status is the admin status update.
func NewTask(title, description string, priority TaskPriority, authorID uuid.UUID, assigneeID *uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		AuthorID:    authorID,
		AssigneeID:  assigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > 100 {
		return ErrTaskTitleTooLong
	}
	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}
	if _, err := ParseTaskPriority(string(t.Priority)); err != nil {
		return err
	}
	if t.AuthorID == uuid.Nil {
		return ErrEmptyTaskAuthor
	}
	return nil
}

// IsAuthor reports whether the given user authored this task.
func (t *Task) IsAuthor(userID uuid.UUID) bool {
	return t.AuthorID == userID
}

// IsAssignee reports whether the given user is the task's assignee.
// Unassigned tasks have no assignee and return false for everyone.
func (t *Task) IsAssignee(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
