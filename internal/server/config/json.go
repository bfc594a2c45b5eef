package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/flagx"
	"github.com/dmitrijs2005/gatewayclient/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations use timex.Duration
// so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	SecretKey       string         `json:"secret_key"`
	AccessTokenTTL  timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL timex.Duration `json:"refresh_token_ttl"`
	InsecureCookies bool           `json:"insecure_cookies"`
	DemoUser        string         `json:"demo_user"`
	DemoPassword    string         `json:"demo_password"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into cfg. Without the flag nothing is loaded. If the file cannot
// be read or contains invalid JSON, the function panics.
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

	cfg.Addr = jc.Addr
	cfg.SecretKey = jc.SecretKey
	cfg.AccessTokenTTL = time.Duration(jc.AccessTokenTTL.Duration)
	cfg.RefreshTokenTTL = time.Duration(jc.RefreshTokenTTL.Duration)
	cfg.InsecureCookies = jc.InsecureCookies
	cfg.DemoUser = jc.DemoUser
	cfg.DemoPassword = jc.DemoPassword
}
