package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-b string   scripture provider base URL
//	-u string   provider username
//	-p string   provider password
//	-t int      provider call timeout, seconds
//	-r int      credential refresh window, minutes
//	-w string   operator warning webhook URL
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs), so
// -c/-config can be handled separately by parseJson.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-b", "-u", "-p", "-t", "-r", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.BibleAPIBaseURL, "b", config.BibleAPIBaseURL, "scripture provider base URL")
	fs.StringVar(&config.BibleAPIUsername, "u", config.BibleAPIUsername, "scripture provider username")
	fs.StringVar(&config.BibleAPIPassword, "p", config.BibleAPIPassword, "scripture provider password")

	timeout := fs.Int("t", int(config.BibleAPITimeout.Seconds()), "provider call timeout (in seconds)")
	refreshWindow := fs.Int("r", int(config.CredentialRefreshWindow.Minutes()), "credential refresh window (in minutes)")

	fs.StringVar(&config.WarningWebhookURL, "w", config.WarningWebhookURL, "operator warning webhook URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.BibleAPITimeout = time.Duration(*timeout) * time.Second
	config.CredentialRefreshWindow = time.Duration(*refreshWindow) * time.Minute
}
