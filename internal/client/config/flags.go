package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags reads os.Args[1:]. Flags must come before the command.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("safevault-client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	timeout := fs.Int("w", int(cfg.Timeout.Seconds()), "call timeout (in seconds)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
	if fs.NArg() > 0 {
		cfg.Command = fs.Args()
	}
}
