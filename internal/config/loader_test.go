package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	path := writeFile(t, t.TempDir(), "config.yaml", "app:\n  name: custom\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTP.Addr())
	assert.Equal(t, 1864, cfg.Engine.MinBuildYear)
	assert.Equal(t, 2223, cfg.Engine.MaxBuildYear)
	assert.Equal(t, 24*time.Hour, cfg.Engine.PlateCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Engine.AnalysisTimeout)
	assert.Equal(t, "6.1.0", cfg.Engine.SchemaVersion)
	assert.Equal(t, time.Minute, cfg.Security.RateLimit.Window)
	assert.False(t, cfg.Cache.Redis.Enabled)
}

func TestLoadFileExpandsPlaceholders(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("XK_TEST_PORT", "9090")
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  http:
    port: ${XK_TEST_PORT:8000}
cache:
  redis:
    host: ${XK_TEST_UNSET_HOST:redis.internal}
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "redis.internal", cfg.Cache.Redis.Host)
}

func TestLoadFileMergesEnvironmentFile(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "engine:\n  plate_cache_size: 10\n  schema_version: \"6.1.0\"\n")
	writeFile(t, dir, "config.staging.yaml", "engine:\n  plate_cache_size: 20\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Engine.PlateCacheSize)
	assert.Equal(t, "6.1.0", cfg.Engine.SchemaVersion)
}

func TestEnvironmentVariablesOverride(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("ENGINE_ANALYSIS_TIMEOUT", "750ms")
	t.Setenv("SECURITY_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	path := writeFile(t, t.TempDir(), "config.yaml", "engine:\n  analysis_timeout: 5s\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Engine.AnalysisTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORS.AllowedOrigins)
}

func TestLoadFileErrors(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "config.yaml", "engine:\n  min_build_year: 2000\n  max_build_year: 1990\n")
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "invalid build year range")

	path = writeFile(t, t.TempDir(), "config.yaml", "security:\n  rate_limit:\n    enabled: true\n    requests: 0\n")
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "rate limit")
}

func TestExpandEnvKeepsUnknownPlaceholders(t *testing.T) {
	assert.Equal(t, "${XK_SURELY_UNSET}", expandEnv("${XK_SURELY_UNSET}"))
	assert.Equal(t, "fallback", expandEnv("${XK_SURELY_UNSET:fallback}"))
	assert.Equal(t, "", expandEnv("${XK_SURELY_UNSET:}"))
}
