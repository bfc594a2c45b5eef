package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnvFile(t *testing.T, path string) {
	t.Helper()
	orig := EnvFile
	EnvFile = path
	t.Cleanup(func() { EnvFile = orig })
}

func TestParseEnv_Variables(t *testing.T) {
	withEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("GATEWAY_API_BASE_URL", "https://api.example")
	t.Setenv("GATEWAY_DATABASE_PATH", ":memory:")
	t.Setenv("GATEWAY_LOCALE", "en")
	t.Setenv("GATEWAY_ENVIRONMENT", "production")
	t.Setenv("GATEWAY_LOG_BACKEND", "zerolog")
	t.Setenv("GATEWAY_QUERY_STALE_TIME", "1m")
	t.Setenv("GATEWAY_QUERY_RETRIES", "-1")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NotPanics(t, func() { parseEnv(cfg) })

	assert.Equal(t, "https://api.example", cfg.APIBaseURL)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Production())
	assert.Equal(t, "zerolog", cfg.LogBackend)
	assert.Equal(t, time.Minute, cfg.QueryStaleTime)
	assert.Equal(t, -1, cfg.QueryRetries)
}

func TestParseEnv_APIBaseURLFallback(t *testing.T) {
	withEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://public.example")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	assert.Equal(t, "https://public.example", cfg.APIBaseURL)

	t.Setenv("GATEWAY_API_BASE_URL", "https://gateway.example")
	parseEnv(cfg)
	assert.Equal(t, "https://gateway.example", cfg.APIBaseURL, "GATEWAY_ name wins")
}

func TestParseEnv_UnsetKeepsValues(t *testing.T) {
	withEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))

	cfg := &Config{Locale: "en", QueryRetries: 7}
	parseEnv(cfg)

	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 7, cfg.QueryRetries)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GATEWAY_LOG_BACKEND=zerolog\n"), 0o600))
	withEnvFile(t, path)
	t.Cleanup(func() { os.Unsetenv("GATEWAY_LOG_BACKEND") })

	cfg := &Config{LogBackend: "slog"}
	parseEnv(cfg)

	assert.Equal(t, "zerolog", cfg.LogBackend)
}

func TestParseEnv_MalformedDotEnvPanics(t *testing.T) {
	dir := t.TempDir()
	withEnvFile(t, dir)

	require.Panics(t, func() { parseEnv(&Config{}) })
}
