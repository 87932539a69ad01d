package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8080", cfg.Server.URL)
	assert.Equal(t, "bolt", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.ItemDelay)
	assert.Equal(t, time.Second, cfg.Sync.Settle)
	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.URL, cfg.Server.URL)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  url: https://workshop.example.com
storage:
  backend: sqlite
  path: /tmp/wrench.db
sync:
  max_retries: 5
  settle: 2s
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://workshop.example.com", cfg.Server.URL)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/wrench.db", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Sync.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Sync.Settle)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)

	// Незатронутые ключи остаются со значениями по умолчанию
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.ItemDelay)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
