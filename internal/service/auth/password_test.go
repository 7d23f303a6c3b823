package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast; production uses the configured cost.
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", digest)

	assert.NoError(t, hasher.Compare(digest, "password123"))
	assert.Error(t, hasher.Compare(digest, "wrong-password"))
}

func TestBcryptHasherRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	_, err := hasher.Hash("")
	assert.Error(t, err)
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	t.Parallel()

	// A cost below bcrypt's minimum falls back to the default, which still
	// produces verifiable digests.
	hasher := auth.NewBcryptHasher(0)
	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(digest, "password123"))
}
