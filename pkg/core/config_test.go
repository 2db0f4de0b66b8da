package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvocate/memshare-go/pkg/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := core.DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Storage.Provider)
	assert.Equal(t, "rules", cfg.Generator.Provider)
	assert.Equal(t, 60, cfg.Suppression.WindowSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Storage.Provider = "mongodb"
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)

	cfg = core.DefaultConfig()
	cfg.Generator.Provider = "markov"
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
}

func TestValidateRequiresAPIKeyForOpenAI(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Generator.Provider = "openai"
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)

	cfg.Generator.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Suppression.WindowSeconds = 0
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_PROVIDER", "memory")
	t.Setenv("SUPPRESSION_WINDOW_SECONDS", "120")

	cfg, err := core.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, 120, cfg.Suppression.WindowSeconds)
}

func TestLoadConfigFromEnvPostgres(t *testing.T) {
	t.Setenv("DATABASE_PROVIDER", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "advocacy")
	t.Setenv("POSTGRES_DATABASE", "iep")

	cfg, err := core.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Provider)
	assert.Equal(t, "db.internal", cfg.Storage.Postgres.Host)
	assert.Equal(t, 5433, cfg.Storage.Postgres.Port)
	assert.Equal(t, "advocacy", cfg.Storage.Postgres.User)
	assert.Equal(t, "iep", cfg.Storage.Postgres.DBName)
	assert.Equal(t, "disable", cfg.Storage.Postgres.SSLMode)
}

func TestLoadConfigFromEnvRejectsBadWindow(t *testing.T) {
	t.Setenv("SUPPRESSION_WINDOW_SECONDS", "not-a-number")

	_, err := core.LoadConfigFromEnv()
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":7070"
  log_level: debug
storage:
  provider: memory
suppression:
  window_seconds: 30
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := core.LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, 30, cfg.Suppression.WindowSeconds)
	// Untouched sections keep their defaults.
	assert.Equal(t, "rules", cfg.Generator.Provider)
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	_, err := core.LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
