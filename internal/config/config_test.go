package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 5432
  user: roadweave
  password: secret
  dbname: roadweave
  sslmode: disable
ai:
  api_key: test-key
  enable_photo_analysis: true
  daily_photo_analysis_limit: 50
admin:
  username: root
  password: hunter2
display_timezone: America/New_York
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.True(t, cfg.AI.EnablePhotoAnalysis)
	assert.Equal(t, 50, cfg.AI.DailyPhotoAnalysisLimit)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, "America/New_York", cfg.DisplayTimezone)
	assert.Equal(t,
		"host=localhost port=5432 user=roadweave password=secret dbname=roadweave sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.AI.BaseURL)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.AI.Model)
	assert.Equal(t, 120, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 1024, cfg.AI.MaxImageDimension)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.LocalPath)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "Europe/Berlin", cfg.DisplayTimezone)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	path := writeConfig(t, "ai:\n  api_key: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
