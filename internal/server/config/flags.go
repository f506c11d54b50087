package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/skdtracker/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   health/metrics HTTP bind address
//	-v string   store driver ("pgx" or "sqlite")
//	-d string   store DSN
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-r string   Redis URL
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first, so flags meant for other
// components (such as -c) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-v", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "address and port for health and metrics")
	fs.StringVar(&config.StoreDriver, "v", config.StoreDriver, "store driver (pgx, sqlite)")
	fs.StringVar(&config.StoreDSN, "d", config.StoreDSN, "store DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for sessions")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
