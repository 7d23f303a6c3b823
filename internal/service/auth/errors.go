package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken indicates the token is malformed or its signature
	// doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrBadCredentials indicates a login attempt with an unknown email
	// or wrong password. Deliberately indistinguishable between the two.
	ErrBadCredentials = errors.New("invalid email or password")
)
