// Package config handles configuration for the server component:
// defaults, JSON overlay, .env file, environment variables and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/dbx"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the Sociopedia server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the REST API and the gRPC endpoint.
//   - DatabaseDSN: postgres://, sqlite:// (or file:) or mongodb:// URI of the identity store.
//   - SecretKey: HMAC secret for signing access tokens (HS256). No default.
//   - AccessTokenValidityDuration: token lifetime.
//   - BcryptCost / HashWorkers: password hashing work factor and concurrency.
//   - LogLevel / LogFormat: slog level and "json" or "text".
//   - CORSAllowedOrigins: browser origins admitted by CORS; "*" admits any.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   auth.Secret
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	HashWorkers                 int
	LogLevel                    string
	LogFormat                   string
	CORSAllowedOrigins          []string
}

// LoadDefaults populates Config with development defaults. The signing
// secret has no default.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3001"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "sqlite://sociopedia.db"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.HashWorkers = 0
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.CORSAllowedOrigins = []string{"*"}
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if len(c.SecretKey) == 0 {
		return fmt.Errorf("secret key is not set")
	}
	if len(c.SecretKey) < auth.MinSecretLength {
		return fmt.Errorf("secret key must be at least %d bytes", auth.MinSecretLength)
	}
	if _, err := dbx.DetectDriver(c.DatabaseDSN); err != nil {
		return fmt.Errorf("database dsn: %w", err)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.HashWorkers < 0 {
		return fmt.Errorf("hash workers must not be negative, got %d", c.HashWorkers)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, an optional .env file, the environment and
// finally command-line flags. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
