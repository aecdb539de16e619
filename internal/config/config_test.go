package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 32, cfg.Engine.MaxResolutionDepth)
	assert.Equal(t, 16, cfg.Engine.MaxCascadeDepth)
	assert.Equal(t, 1, cfg.Engine.InitialDeadVotes)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: DEBUG
  format: json
engine:
  max_cascade_depth: 4
  initial_dead_votes: 2
history:
  enabled: true
  dir: /tmp/grimoire
database:
  url: postgres://localhost/grimoire
  max_conns: 8
  max_conn_lifetime: 30m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Engine.MaxCascadeDepth)
	assert.Equal(t, 32, cfg.Engine.MaxResolutionDepth)
	assert.Equal(t, 2, cfg.Engine.InitialDeadVotes)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/grimoire", cfg.History.Dir)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int32(8), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxConnLifetime)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\nengine:\n  max_resolution_depth: 8\n")
	t.Setenv("GRIMOIRE_LOGGING_LEVEL", "error")
	t.Setenv("GRIMOIRE_ENGINE_MAX_CASCADE_DEPTH", "3")
	t.Setenv("GRIMOIRE_DATABASE_URL", "postgres://db/grimoire")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Engine.MaxResolutionDepth)
	assert.Equal(t, 3, cfg.Engine.MaxCascadeDepth)
	assert.Equal(t, "postgres://db/grimoire", cfg.Database.URL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"zero resolution depth", "engine:\n  max_resolution_depth: 0\n"},
		{"zero cascade depth", "engine:\n  max_cascade_depth: 0\n"},
		{"negative dead votes", "engine:\n  initial_dead_votes: -1\n"},
		{"history without dir", "history:\n  enabled: true\n  dir: \"\"\n"},
		{"database without conns", "database:\n  url: postgres://x\n  max_conns: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("GRIMOIRE_ENGINE_MAX_CASCADE_DEPTH", "deep")
	_, err := Load("")
	assert.Error(t, err)
}
