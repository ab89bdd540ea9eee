package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/safevault/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-s", "-i", "-n", "-t", "-l", "-w", "-k", "-f", "-v",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-m          keep users in memory instead of PostgreSQL
//	-s string   token HMAC secret key
//	-i string   token issuer
//	-n string   token audience
//	-t int      token lifetime, minutes
//	-l int      failed attempts before lockout
//	-w int      lockout window, minutes
//	-k int      bcrypt cost
//	-f string   YAML file with users to seed
//	-v string   log level (debug, info, warn, error)
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 audit bucket (empty disables auditing)
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//
// Durations are given as whole minutes and only replace the current value
// when the flag is present.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags, "-m")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.InMemory, "m", config.InMemory, "in-memory user store")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.StringVar(&config.TokenAudience, "n", config.TokenAudience, "token audience")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token lifetime (in minutes)")
	fs.IntVar(&config.LockoutThreshold, "l", config.LockoutThreshold, "failed attempts before lockout")
	lockoutWindow := fs.Int("w", int(config.LockoutDuration.Minutes()), "lockout window (in minutes)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.SeedUsersFile, "f", config.SeedUsersFile, "seed users file (yaml)")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 audit bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		case "w":
			config.LockoutDuration = time.Duration(*lockoutWindow) * time.Minute
		}
	})
}
