package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/sociopedia/internal/flagx"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/joho/godotenv"
)

// envConfig lists the recognised environment variables. Unset variables
// stay nil and do not override earlier layers.
type envConfig struct {
	EndpointAddrHTTP            *string        `env:"HTTP_ADDRESS"`
	EndpointAddrGRPC            *string        `env:"GRPC_ADDRESS"`
	DatabaseDSN                 *string        `env:"DATABASE_DSN"`
	MongoURL                    *string        `env:"MONGO_URL"`
	SecretKey                   *string        `env:"JWT_SECRET"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_TTL"`
	BcryptCost                  *int           `env:"BCRYPT_COST"`
	HashWorkers                 *int           `env:"HASH_WORKERS"`
	LogLevel                    *string        `env:"LOG_LEVEL"`
	LogFormat                   *string        `env:"LOG_FORMAT"`
	CORSAllowedOrigins          []string       `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// parseEnv overlays the .env file named by -env (a missing ./.env is fine)
// and then the process environment, which wins over the file.
func parseEnv(config *Config) error {
	environ, err := loadDotEnv(flagx.EnvFileFlag())
	if err != nil {
		return err
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return applyEnv(config, environ)
}

func loadDotEnv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func applyEnv(config *Config, environ map[string]string) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	setFromEnv(&config.EndpointAddrHTTP, ec.EndpointAddrHTTP)
	setFromEnv(&config.EndpointAddrGRPC, ec.EndpointAddrGRPC)
	setFromEnv(&config.DatabaseDSN, ec.MongoURL)
	setFromEnv(&config.DatabaseDSN, ec.DatabaseDSN)
	if ec.SecretKey != nil {
		config.SecretKey = auth.Secret(*ec.SecretKey)
	}
	setFromEnv(&config.AccessTokenValidityDuration, ec.AccessTokenValidityDuration)
	setFromEnv(&config.BcryptCost, ec.BcryptCost)
	setFromEnv(&config.HashWorkers, ec.HashWorkers)
	setFromEnv(&config.LogLevel, ec.LogLevel)
	setFromEnv(&config.LogFormat, ec.LogFormat)
	setOrigins(&config.CORSAllowedOrigins, ec.CORSAllowedOrigins)
	return nil
}

func setFromEnv[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
