package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL. Roles are stored
// in a JSONB column; the set is written once at registration and never
// updated through this API.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a new PostgreSQL implementation of store.UserStore.
// The database connection is initialized and managed by the caller.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	query := `
		INSERT INTO users (id, email, hashed_password, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		roles,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, roles, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(ctx, query, email)
}

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

func (s *UserStore) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var roles []byte

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", MapError(err))
	}

	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	return &user, nil
}
