package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// UserService handles registration and credential verification.
type UserService struct {
	db        *sql.DB
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
}

// NewUserService creates a UserService. The bcrypt hasher satisfies both
// the hasher and verifier interfaces.
func NewUserService(db *sql.DB, userStore store.UserStore, hasher auth.PasswordHasher, verifier auth.PasswordVerifier) *UserService {
	return &UserService{
		db:        db,
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
	}
}

// Register creates a new user with a hashed password. An empty role set
// defaults to USER so no account ends up without roles.
// Returns store.ErrEmailExists when the email is already registered.
func (s *UserService) Register(ctx context.Context, email, password string, roles []string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}

	user, err := domain.NewUser(email, password, roles)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate verifies an email/password pair and returns the matching
// user. A missing user and a wrong password both yield ErrBadCredentials
// so a caller cannot probe which emails are registered.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, auth.ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch on login", "email", email)
		return nil, auth.ErrBadCredentials
	}

	return user, nil
}

// GetByEmail resolves a user by email. Used to stamp author identities
// from the request principal.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userStore.GetByEmail(ctx, email)
}
