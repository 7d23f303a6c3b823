package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// TaskStore implements store.TaskStore using PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new PostgreSQL implementation of store.TaskStore.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore.
var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = "id, title, description, status, priority, author_id, assignee_id, created_at, updated_at"

// sortColumns whitelists filter sort fields (request names) against the
// columns they map to. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"priority":  "priority",
	"status":    "status",
	"title":     "title",
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AuthorID,
		assigneeArg(task.AssigneeID),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task", "error", err, "task_id", task.ID)
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    assignee_id = $5, updated_at = $6
		WHERE id = $7
	`

	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		assigneeArg(task.AssigneeID),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete. Comments go with the task via
// the ON DELETE CASCADE constraint.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task", "error", err, "task_id", id)
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ListForUser implements store.TaskStore.ListForUser.
func (s *TaskStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE author_id = $1 OR assignee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// ListAll implements store.TaskStore.ListAll.
func (s *TaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// FindByFilter implements store.TaskStore.FindByFilter. The WHERE clause
// is assembled from the non-nil filter fields; RestrictToUser intersects
// everything with an author-or-assignee condition.
func (s *TaskStore) FindByFilter(ctx context.Context, filter store.TaskFilter, page store.PageRequest) ([]*domain.Task, int64, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conds = append(conds, "status = "+arg(*filter.Status))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+arg(*filter.Priority))
	}
	if filter.AuthorID != nil {
		conds = append(conds, "author_id = "+arg(*filter.AuthorID))
	}
	if filter.AssigneeID != nil {
		conds = append(conds, "assignee_id = "+arg(*filter.AssigneeID))
	}
	if filter.RestrictToUser != nil {
		p := arg(*filter.RestrictToUser)
		conds = append(conds, "(author_id = "+p+" OR assignee_id = "+p+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM tasks" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", MapError(err))
	}

	column, ok := sortColumns[page.SortField]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if page.SortDir == store.SortAsc {
		dir = "ASC"
	}

	query := "SELECT " + taskColumns + " FROM tasks" + where +
		" ORDER BY " + column + " " + dir +
		" LIMIT " + arg(page.Size) + " OFFSET " + arg(page.Page*page.Size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var assignee uuid.NullUUID

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.AuthorID,
		&assignee,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		id := assignee.UUID
		task.AssigneeID = &id
	}
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

func assigneeArg(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
