package config

import (
	"os"

	"github.com/dmitrijs2005/gatewayclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     backend origin (APIBaseURL)
//	-d string     local storage database path
//	-l string     notification locale
//	-e string     environment name
//	-log string   log backend
//	-s duration   query stale time, e.g. "30s"
//	-r int        query retries (0 disables retries)
//
// Flags owned by other components are filtered out before parsing.
func parseFlags(cfg *Config) {
	fs, args := flagx.NewFlagSet("client", os.Args[1:], "a", "d", "l", "e", "log", "s", "r")

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend origin")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local storage database path")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "notification locale")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment name")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend (slog or zerolog)")
	fs.DurationVar(&cfg.QueryStaleTime, "s", cfg.QueryStaleTime, "query stale time")
	fs.IntVar(&cfg.QueryRetries, "r", cfg.QueryRetries, "query retries (0 disables retries)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
