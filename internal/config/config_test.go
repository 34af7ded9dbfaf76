package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_FileWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
url = "postgres://localhost:5432/fashionwms"

[server]
port = 9090
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost:5432/fashionwms", cfg.Database.URL)
	// Untouched sections keep their defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.Jobs.ReconcileIntervalMinutes)
	assert.Equal(t, "10", cfg.Jobs.LowStockThreshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
url = "postgres://localhost:5432/file_db"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/env_db")
	t.Setenv("PORT", "3000")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/env_db", cfg.Database.URL)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/env_only")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/env_only", cfg.Database.URL)
}
