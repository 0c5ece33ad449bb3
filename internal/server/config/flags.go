package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session token secret key
//	-t int      session validity, hours
//	-l string   log backend (slog|zap)
//	-r string   Redis URL for the event bus
//	-prod       production mode (secure cookies)
//
// Only these flags are taken from os.Args (see flagx.FilterArgs), so -c and
// any flags owned by other loaders do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagx.Set{
		Values:   []string{"-a", "-d", "-s", "-t", "-l", "-r"},
		Switches: []string{"-prod"},
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionHours := fs.Int("t", int(config.SessionValidity.Hours()), "session validity (in hours)")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend: slog or zap")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for group events")
	fs.BoolVar(&config.Production, "prod", config.Production, "production mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given; otherwise sub-hour values from the
	// environment or the JSON file would be truncated.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidity = time.Duration(*sessionHours) * time.Hour
		}
	})
}
