package service_test

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/mocks"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// newTxDB returns a mocked *sql.DB for exercising the transaction
// wrapper around store mutations.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("hashes password and defaults role", func(t *testing.T) {
		t.Parallel()
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		var created *domain.User
		userStore := &mocks.MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				created = user
				return nil
			},
		}

		hasher := testHasher()
		svc := service.NewUserService(db, userStore, hasher, hasher)

		user, err := svc.Register(context.Background(), "alice@example.com", "password123", nil)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, []string{domain.RoleUser}, user.Roles)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, hasher.Compare(user.HashedPassword, "password123"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps requested roles", func(t *testing.T) {
		t.Parallel()
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		hasher := testHasher()
		svc := service.NewUserService(db, &mocks.MockUserStore{}, hasher, hasher)

		user, err := svc.Register(context.Background(), "root@example.com", "password123", []string{domain.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoleAdmin}, user.Roles)
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		userStore := &mocks.MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		hasher := testHasher()
		svc := service.NewUserService(db, userStore, hasher, hasher)

		_, err := svc.Register(context.Background(), "alice@example.com", "password123", nil)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		t.Parallel()
		db, _ := newTxDB(t)

		hasher := testHasher()
		svc := service.NewUserService(db, &mocks.MockUserStore{}, hasher, hasher)

		_, err := svc.Register(context.Background(), "not-an-email", "password123", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)

		_, err = svc.Register(context.Background(), "alice@example.com", "short", nil)
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	t.Parallel()

	hasher := testHasher()
	hashed, err := hasher.Hash("password123")
	require.NoError(t, err)

	stored, err := domain.NewUser("alice@example.com", "password123", []string{domain.RoleUser})
	require.NoError(t, err)
	stored.Password = ""
	stored.HashedPassword = hashed

	userStore := &mocks.MockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, store.ErrUserNotFound
		},
	}

	db, _ := newTxDB(t)
	svc := service.NewUserService(db, userStore, hasher, hasher)

	t.Run("accepts correct credentials", func(t *testing.T) {
		t.Parallel()
		user, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
	})

	t.Run("rejects unknown email identically", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrBadCredentials)
	})
}
