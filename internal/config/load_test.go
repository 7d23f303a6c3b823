package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/config"
)

// a secret long enough to satisfy the min=32 constraint
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/tasktrack", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)

	// Defaults kick in for everything not set.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, int64(86400000), cfg.Auth.TokenValidityMS)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKTRACK_SERVER_PORT", "9090")
	t.Setenv("TASKTRACK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKTRACK_AUTH_TOKEN_VALIDITY_MS", "3600000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, int64(3600000), cfg.Auth.TokenValidityMS)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", "too-short")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "postgres://localhost:5432/tasktrack")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKTRACK_SERVER_LOG_LEVEL", "verbose")

	_, err := config.Load()
	assert.Error(t, err)
}
