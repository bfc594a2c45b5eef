package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.APIBaseURL)
	assert.Equal(t, "gatewayclient.db", c.DatabasePath)
	assert.Equal(t, "fa", c.Locale)
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, "slog", c.LogBackend)
	assert.Equal(t, time.Duration(0), c.QueryStaleTime)
	assert.Equal(t, 3, c.QueryRetries)
	assert.False(t, c.Production())
}

func TestLoadConfig_Layering(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	origEnvFile := EnvFile
	EnvFile = "does-not-exist.env"
	t.Cleanup(func() { EnvFile = origEnvFile })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "https://json.example",
		"locale":       "en",
		"environment":  "staging",
	})
	t.Setenv("GATEWAY_LOCALE", "fa")
	t.Setenv("GATEWAY_ENVIRONMENT", "production")

	os.Args = []string{"cmd", "-config", path, "-e", "development"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://json.example", cfg.APIBaseURL, "json beats defaults")
	assert.Equal(t, "fa", cfg.Locale, "env beats json")
	assert.Equal(t, "development", cfg.Environment, "flags beat env")
	assert.Equal(t, "gatewayclient.db", cfg.DatabasePath, "untouched fields keep defaults")
}

func TestEngineRetries(t *testing.T) {
	tests := []struct {
		retries int
		want    int
	}{
		{retries: 3, want: 3},
		{retries: 1, want: 1},
		{retries: 0, want: -1},
		{retries: -1, want: -1},
	}

	for _, tt := range tests {
		c := Config{QueryRetries: tt.retries}
		assert.Equal(t, tt.want, c.EngineRetries(), "QueryRetries=%d", tt.retries)
	}
}
