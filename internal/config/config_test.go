package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsRequirePostgresDSN(t *testing.T) {
	os.Clearenv()
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestNewReadsPrefixedEnv(t *testing.T) {
	os.Clearenv()
	t.Setenv("SEARCH_SERVICE_DB_DRIVER", "sqlite")
	t.Setenv("SEARCH_SERVICE_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("SEARCH_SERVICE_HTTP_PORT", "9999")
	t.Setenv("SEARCH_SERVICE_DEV_MODE", "true")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, ":9999", cfg.GetHTTPAddr())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := NewForTesting("/tmp/x.db")
	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroRetries(t *testing.T) {
	cfg := NewForTesting("/tmp/x.db")
	cfg.MaxConflictRetries = 0
	assert.Error(t, cfg.Validate())
}

func TestNewForTesting(t *testing.T) {
	cfg := NewForTesting("/tmp/y.db")
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.IsProduction())
}
