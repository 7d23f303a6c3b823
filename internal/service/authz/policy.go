// Package authz implements the authorization policy: an explicit,
// inspectable table mapping each protected operation to its required
// roles and ownership predicate, evaluated in ordinary code at the start
// of each handler.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// ErrForbidden indicates the caller failed a role gate or ownership
// predicate. Distinct from the store's not-found errors: an existing
// resource with a non-owner caller is a denial, not a 404.
var ErrForbidden = errors.New("access denied")

// Operation identifies a protected API operation.
type Operation string

// Protected operations.
const (
	OpTaskCreate       Operation = "task.create"
	OpTaskGet          Operation = "task.get"
	OpTaskUpdate       Operation = "task.update"
	OpTaskStatusUpdate Operation = "task.status.update"
	OpTaskDelete       Operation = "task.delete"
	OpTaskList         Operation = "task.list"
	OpCommentCreate    Operation = "comment.create"
	OpCommentUpdate    Operation = "comment.update"
	OpCommentDelete    Operation = "comment.delete"
	OpCommentList      Operation = "comment.list"
)

// Ownership names the predicate evaluated after the role gate. ADMIN
// callers always pass ownership checks.
type Ownership int

// Ownership predicates.
const (
	// OwnershipNone requires no resource relationship.
	OwnershipNone Ownership = iota

	// OwnershipTaskAuthorOrAssignee requires the caller to be the
	// task's author or assignee. The resource ID is a task ID.
	OwnershipTaskAuthorOrAssignee

	// OwnershipTaskAuthor requires the caller to be the task's author.
	// The resource ID is a task ID.
	OwnershipTaskAuthor

	// OwnershipCommentAuthor requires the caller to be the comment's
	// author. The resource ID is a comment ID.
	OwnershipCommentAuthor
)

// Rule is one row of the policy table: the role gate checked first, then
// the ownership predicate.
type Rule struct {
	Roles     []string
	Ownership Ownership
}

// rules is the full policy table. Role gates fail closed: an anonymous
// caller or one holding none of the listed roles is denied before any
// resource is loaded. The delete rows encode "admin or author": ADMIN
// bypasses every ownership predicate, so the author check only
// constrains USER callers. List restriction for non-admins is applied
// by the task service's filter, not here.
var rules = map[Operation]Rule{
	OpTaskCreate:       {Roles: []string{domain.RoleUser, domain.RoleAdmin}},
	OpTaskGet:          {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthorOrAssignee},
	OpTaskUpdate:       {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthorOrAssignee},
	OpTaskStatusUpdate: {Roles: []string{domain.RoleAdmin}},
	OpTaskDelete:       {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthor},
	OpTaskList:         {Roles: []string{domain.RoleUser, domain.RoleAdmin}},
	OpCommentCreate:    {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthorOrAssignee},
	OpCommentUpdate:    {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthorOrAssignee},
	OpCommentDelete:    {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipCommentAuthor},
	OpCommentList:      {Roles: []string{domain.RoleUser, domain.RoleAdmin}, Ownership: OwnershipTaskAuthorOrAssignee},
}

// Policy evaluates the rule table against a request's principal. Ownership
// predicates load the resource through the stores, so a missing resource
// surfaces as the store's not-found error before any denial.
type Policy struct {
	userStore    store.UserStore
	taskStore    store.TaskStore
	commentStore store.CommentStore
}

// NewPolicy creates a Policy over the given stores.
func NewPolicy(userStore store.UserStore, taskStore store.TaskStore, commentStore store.CommentStore) (*Policy, error) {
	if userStore == nil || taskStore == nil || commentStore == nil {
		return nil, fmt.Errorf("policy requires user, task, and comment stores")
	}
	return &Policy{
		userStore:    userStore,
		taskStore:    taskStore,
		commentStore: commentStore,
	}, nil
}

// Rule returns the policy table entry for an operation, for inspection
// and tests. Unknown operations report ok=false and must be denied.
func (p *Policy) Rule(op Operation) (Rule, bool) {
	rule, ok := rules[op]
	return rule, ok
}

// Authorize evaluates the operation's role gate and ownership predicate
// for the given principal. resourceID is the task ID for task-scoped
// predicates and the comment ID for comment-scoped ones; it is ignored
// when the predicate is OwnershipNone.
//
// Returns nil when access is granted, ErrForbidden on a role or ownership
// denial, or a store not-found error when the resource does not exist.
func (p *Policy) Authorize(ctx context.Context, principal auth.Principal, op Operation, resourceID uuid.UUID) error {
	log := logger.FromContext(ctx)

	rule, ok := rules[op]
	if !ok {
		log.Error("no policy rule for operation", "operation", op)
		return ErrForbidden
	}

	if principal.IsAnonymous() || !principal.HasAnyRole(rule.Roles...) {
		return ErrForbidden
	}

	// ADMIN passes every ownership predicate.
	if rule.Ownership == OwnershipNone || principal.HasRole(domain.RoleAdmin) {
		return nil
	}

	user, err := p.userStore.GetByEmail(ctx, principal.Email)
	if err != nil {
		return fmt.Errorf("failed to resolve principal: %w", err)
	}

	switch rule.Ownership {
	case OwnershipTaskAuthorOrAssignee:
		task, err := p.taskStore.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if task.IsAuthor(user.ID) || task.IsAssignee(user.ID) {
			return nil
		}
	case OwnershipTaskAuthor:
		task, err := p.taskStore.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if task.IsAuthor(user.ID) {
			return nil
		}
	case OwnershipCommentAuthor:
		comment, err := p.commentStore.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if comment.IsAuthor(user.ID) {
			return nil
		}
	}

	return ErrForbidden
}
