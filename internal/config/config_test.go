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

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 120, cfg.Server.RateLimit)
	assert.Equal(t, "http://localhost:8081/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10, cfg.Jobs.PageSize)
	assert.Equal(t, 10*time.Minute, cfg.Redis.DetailTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_YAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_BACKEND_URL", "https://backend.internal/api")

	configYAML := `
server:
  port: 9090
backend:
  base_url: ${TEST_BACKEND_URL}
  timeout: 10s
jobs:
  page_size: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://backend.internal/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 25, cfg.Jobs.PageSize)
	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	configYAML := `
jobs:
  page_size: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))

	t.Setenv("JOBS_PAGE_SIZE", "50")
	t.Setenv("PORT", "7070")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Jobs.PageSize)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_BadEnvValuesIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("JOBS_PAGE_SIZE", "-5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Jobs.PageSize)
}

func TestLoadConfig_MissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("EXPAND_A", "alpha")

	assert.Equal(t, "alpha", expandEnvVars("${EXPAND_A}"))
	assert.Equal(t, "alpha", expandEnvVars("$EXPAND_A"))
	assert.Equal(t, "${EXPAND_MISSING}", expandEnvVars("${EXPAND_MISSING}"), "unset variables are left as-is")
	assert.Equal(t, "url: alpha/path", expandEnvVars("url: ${EXPAND_A}/path"))
}
