package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "AI Financial Report Analyst", cfg.AppName)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "storage", cfg.Storage.Dir)
	assert.Equal(t, 700, cfg.Chunking.MaxTokens)
	assert.Equal(t, 120, cfg.Chunking.OverlapTokens)
	assert.Equal(t, 3, cfg.Narrative.TopN)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.History.DbPath)
	assert.Zero(t, cfg.History.KeepRuns)
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "valid.yaml")
	content := `app_name: "atlas"
env: "prod"
log_level: "warn"
server:
  host: "127.0.0.1"
  port: "9090"
  shutdown_timeout: "3s"
storage:
  backend: "s3"
  s3:
    bucket: "reports"
    prefix: "atlas"
history:
  db_path: "history.db"
  keep_runs: 25
chunking:
  max_tokens: 300
  overlap_tokens: 20
narrative:
  top_n: 5`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "atlas", cfg.AppName)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "reports", cfg.Storage.S3.Bucket)
	assert.Equal(t, "atlas", cfg.Storage.S3.Prefix)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, "history.db", cfg.History.DbPath)
	assert.Equal(t, 25, cfg.History.KeepRuns)
	assert.Equal(t, 300, cfg.Chunking.MaxTokens)
	assert.Equal(t, 20, cfg.Chunking.OverlapTokens)
	assert.Equal(t, 5, cfg.Narrative.TopN)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("REPORT_ATLAS_STORAGE_DIR", "/tmp/atlas")
	t.Setenv("REPORT_ATLAS_NARRATIVE_TOP_N", "7")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/atlas", cfg.Storage.Dir)
	assert.Equal(t, 7, cfg.Narrative.TopN)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "server: port: bad"},
		{name: "unknown backend", content: "storage:\n  backend: ftp"},
		{name: "s3 without bucket", content: "storage:\n  backend: s3"},
		{name: "non positive chunk size", content: "chunking:\n  max_tokens: 0"},
		{name: "negative retention", content: "history:\n  keep_runs: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
