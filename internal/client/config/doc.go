// Package config loads runtime configuration for the gateway client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables, after an optional .env file is loaded.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     backend origin
//	-d string     local storage database path
//	-l string     notification locale (fa, en)
//	-e string     environment (production disables developer error logs)
//	-log string   log backend (slog, zerolog)
//	-s duration   query stale time
//	-r int        query retries (0 disables retries)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "database_path": "gatewayclient.db",
//	  "locale": "fa",
//	  "environment": "production",
//	  "log_backend": "zerolog",
//	  "query_stale_time": "30s",
//	  "query_retries": 3
//	}
//
// # Environment
//
// GATEWAY_API_BASE_URL (or NEXT_PUBLIC_API_BASE_URL), GATEWAY_DATABASE_PATH,
// GATEWAY_LOCALE, GATEWAY_ENVIRONMENT, GATEWAY_LOG_BACKEND,
// GATEWAY_QUERY_STALE_TIME and GATEWAY_QUERY_RETRIES.
package config
