// Package service contains the application services behind the API
// handlers: registration and login, task lifecycle, and comment
// lifecycle. Services own the transaction boundaries and translate
// between the HTTP layer's inputs and the domain model.
package service

import "errors"

// Service-level errors surfaced to the API layer.
var (
	// ErrAssigneeNotFound indicates a task referenced an assignee that
	// does not exist. Treated as a validation failure, not a missing
	// resource: the task itself is fine, the request body is not.
	ErrAssigneeNotFound = errors.New("assignee does not exist")

	// ErrCommentTaskMismatch indicates a comment operation named a task
	// in the URL path that is not the comment's parent task. Comments
	// cannot be reattached to a different task.
	ErrCommentTaskMismatch = errors.New("comment does not belong to the given task")
)
