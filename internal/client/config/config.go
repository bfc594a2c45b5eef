package config

import (
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

// Config holds runtime settings for the gateway client.
//
// Fields:
//   - APIBaseURL: origin of the backend; requests go to APIBaseURL + "/v1".
//   - DatabasePath: sqlite file backing local storage (":memory:" is allowed).
//   - Locale: language of error notifications ("fa" or "en").
//   - Environment: "production" silences developer error logging.
//   - LogBackend: "slog" or "zerolog".
//   - QueryStaleTime: how long successful query results are served from cache.
//   - QueryRetries: extra attempts for failed queries; 0 or a negative value
//     disables retries.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	Locale         string
	Environment    string
	LogBackend     string
	QueryStaleTime time.Duration
	QueryRetries   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.DatabasePath = "gatewayclient.db"
	c.Locale = "fa"
	c.Environment = "development"
	c.LogBackend = logging.BackendSlog
	c.QueryStaleTime = 0
	c.QueryRetries = query.DefaultRetries
}

// Production reports whether the client runs in the production environment.
func (c *Config) Production() bool {
	return c.Environment == logging.EnvProduction
}

// EngineRetries converts QueryRetries into query.EngineConfig.Retries, where
// zero means "use the default" and only a negative value disables retries.
func (c *Config) EngineRetries() int {
	if c.QueryRetries <= 0 {
		return -1
	}
	return c.QueryRetries
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
