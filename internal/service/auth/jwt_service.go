// Package auth provides the authentication core: stateless JWT issuance
// and verification, bcrypt password hashing, and the request-scoped
// Principal type consumed by the authorization policy.
package auth

import (
	"context"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TokenService defines operations for managing JWT authentication tokens.
// Tokens are stateless and self-contained: verification needs no shared
// state, at the cost of not being able to revoke a token before expiry.
type TokenService interface {
	// GenerateToken creates a signed token carrying the user's email as
	// subject and the role set as a comma-joined claim.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken checks the token's signature and expiry and extracts
	// the identity claims. Any malformed, expired, or badly-signed token
	// yields ErrInvalidToken or ErrExpiredToken; claims are only ever
	// returned from a fully verified token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified identity recovered from a token.
type Claims struct {
	// Email is the token subject.
	Email string

	// Roles is the role set recovered from the comma-joined roles claim.
	Roles []string

	// IssuedAt and ExpiresAt are the token's time bounds.
	IssuedAt  time.Time
	ExpiresAt time.Time
}
