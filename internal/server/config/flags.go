package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-k bool     insecure cookies (no Secure attribute)
//	-u string   demo user name
//	-p string   demo user password
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	fs, args := flagx.NewFlagSet("main", os.Args[1:], "a", "s", "t", "r", "k", "u", "p")

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenTTL.Minutes()), "refresh token validity (in minutes)")

	fs.BoolVar(&config.InsecureCookies, "k", config.InsecureCookies, "issue cookies without the Secure attribute")
	fs.StringVar(&config.DemoUser, "u", config.DemoUser, "demo user name")
	fs.StringVar(&config.DemoPassword, "p", config.DemoPassword, "demo user password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
	config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
}
