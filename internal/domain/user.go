package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names understood by the authorization policy. Roles are stored as
// free-form strings; anything outside this set grants no access.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrEmptyRoles          = errors.New("role set cannot be empty")
)

// User represents a registered identity: a unique email, a bcrypt password
// hash, and a non-empty set of role names. Roles are immutable after
// registration; there is no update endpoint for them.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, only populated during registration
	HashedPassword string    `json:"-"` // Never exposed in JSON
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, plaintext password, and
// roles. It generates the user ID and timestamps and validates the result.
//
// The caller is responsible for hashing the password before storing the
// user; only HashedPassword is ever persisted.
func NewUser(email, password string, roles []string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 6 {
			return ErrPasswordTooShort
		}
		// bcrypt silently truncates beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	if len(u.Roles) == 0 {
		return ErrEmptyRoles
	}
	for _, role := range u.Roles {
		if strings.TrimSpace(role) == "" {
			return ErrEmptyRoles
		}
	}

	return nil
}

// HasRole reports whether the user holds the given role name.
// Role names are compared case-sensitively.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// validEmailFormat performs a structural check of the email address:
// a non-empty local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
