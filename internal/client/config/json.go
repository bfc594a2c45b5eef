package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/flagx"
	"github.com/dmitrijs2005/gatewayclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. Absent fields leave the
// corresponding Config value untouched.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	DatabasePath   *string         `json:"database_path"`
	Locale         *string         `json:"locale"`
	Environment    *string         `json:"environment"`
	LogBackend     *string         `json:"log_backend"`
	QueryStaleTime *timex.Duration `json:"query_stale_time"`
	QueryRetries   *int            `json:"query_retries"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag nothing happens. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.Locale, jc.Locale)
	setString(&cfg.Environment, jc.Environment)
	setString(&cfg.LogBackend, jc.LogBackend)
	if jc.QueryStaleTime != nil {
		cfg.QueryStaleTime = time.Duration(jc.QueryStaleTime.Duration)
	}
	if jc.QueryRetries != nil {
		cfg.QueryRetries = *jc.QueryRetries
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
