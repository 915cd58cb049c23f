package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/sociopedia/internal/flagx"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
// Absent or zero fields leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	HashWorkers                 int            `json:"hash_workers"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
}

// parseJson loads the file named by -c or -config, if any.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.SecretKey != "" {
		config.SecretKey = auth.Secret(c.SecretKey)
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.HashWorkers != 0 {
		config.HashWorkers = c.HashWorkers
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setOrigins(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
}

// setOrigins replaces dst with the non-blank entries of v, if there are any.
func setOrigins(dst *[]string, v []string) {
	origins := make([]string, 0, len(v))
	for _, o := range v {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) > 0 {
		*dst = origins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
