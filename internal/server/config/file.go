package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/safevault/internal/flagx"
	"github.com/dmitrijs2005/safevault/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept
// strings such as "15m" or integer nanoseconds. Pointer fields tell an
// explicit zero apart from an absent key.
type FileConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn" yaml:"database_dsn"`
	InMemory         *bool           `json:"in_memory" yaml:"in_memory"`
	LogLevel         string          `json:"log_level" yaml:"log_level"`
	SecretKey        string          `json:"secret_key" yaml:"secret_key"`
	TokenIssuer      string          `json:"token_issuer" yaml:"token_issuer"`
	TokenAudience    string          `json:"token_audience" yaml:"token_audience"`
	TokenTTL         *timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	LockoutThreshold *int            `json:"lockout_threshold" yaml:"lockout_threshold"`
	LockoutDuration  *timex.Duration `json:"lockout_duration" yaml:"lockout_duration"`
	BcryptCost       *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	SeedUsersFile    string          `json:"seed_users_file" yaml:"seed_users_file"`
	S3AccessKey      string          `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey      string          `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket         string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile loads the file named by -c/-config, if any, and overlays the
// keys it sets. .yaml and .yml files are decoded as YAML, everything else as
// JSON. Unreadable or malformed files panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch flagx.FormatOf(path) {
	case flagx.FormatYAML:
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.TokenAudience, c.TokenAudience)
	setString(&config.SeedUsersFile, c.SeedUsersFile)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.InMemory != nil {
		config.InMemory = *c.InMemory
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.LockoutThreshold != nil {
		config.LockoutThreshold = *c.LockoutThreshold
	}
	if c.LockoutDuration != nil {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
