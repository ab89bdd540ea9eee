package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix  = "SAFEVAULT_"
	dotEnvFile = ".env"
)

// parseEnv overlays SAFEVAULT_* variables. Values from the process
// environment win over values from envFile; a missing envFile is ignored.
// Malformed numbers, booleans or durations panic, like malformed config
// files do.
func parseEnv(config *Config, envFile string) {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v, true
		}
		v, ok := vars[envPrefix+name]
		return v, ok
	}

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(err)
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				panic(err)
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("DATABASE_DSN", &config.DatabaseDSN)
	boolean("IN_MEMORY", &config.InMemory)
	str("LOG_LEVEL", &config.LogLevel)
	str("SECRET_KEY", &config.SecretKey)
	str("TOKEN_ISSUER", &config.TokenIssuer)
	str("TOKEN_AUDIENCE", &config.TokenAudience)
	duration("TOKEN_TTL", &config.TokenTTL)
	integer("LOCKOUT_THRESHOLD", &config.LockoutThreshold)
	duration("LOCKOUT_DURATION", &config.LockoutDuration)
	integer("BCRYPT_COST", &config.BcryptCost)
	str("SEED_USERS_FILE", &config.SeedUsersFile)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)
}
