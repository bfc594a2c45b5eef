package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvFile is the dotenv file loaded before the environment is read. It is
// optional; existing variables are never overwritten by it.
var EnvFile = ".env"

const envPrefix = "GATEWAY"

// parseEnv overlays Config with environment variables. The API origin is
// read from GATEWAY_API_BASE_URL or, failing that, NEXT_PUBLIC_API_BASE_URL;
// every other field uses its GATEWAY_ name (GATEWAY_LOCALE and so on).
func parseEnv(cfg *Config) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("api_base_url", "GATEWAY_API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"); err != nil {
		panic(err)
	}

	if v.IsSet("api_base_url") {
		cfg.APIBaseURL = v.GetString("api_base_url")
	}
	if v.IsSet("database_path") {
		cfg.DatabasePath = v.GetString("database_path")
	}
	if v.IsSet("locale") {
		cfg.Locale = v.GetString("locale")
	}
	if v.IsSet("environment") {
		cfg.Environment = v.GetString("environment")
	}
	if v.IsSet("log_backend") {
		cfg.LogBackend = v.GetString("log_backend")
	}
	if v.IsSet("query_stale_time") {
		cfg.QueryStaleTime = v.GetDuration("query_stale_time")
	}
	if v.IsSet("query_retries") {
		cfg.QueryRetries = v.GetInt("query_retries")
	}
}
