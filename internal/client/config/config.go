// Package config loads runtime configuration for the SafeVault client.
//
// Defaults come first, then flags:
//
//	-a string   address:port of the SafeVault gRPC endpoint
//	-t string   access token used by whoami and users
//	-w int      per-call timeout in seconds
//
// Positional arguments after the flags name the command to run; with no
// command the client starts an interactive prompt.
package config

import "time"

type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	Timeout            time.Duration
	Command            []string
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
	c.Timeout = 10 * time.Second
	c.Command = nil
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}
