package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerURL      *string        `env:"SOCIOPEDIA_SERVER_URL"`
	RequestTimeout *time.Duration `env:"SOCIOPEDIA_REQUEST_TIMEOUT"`
}

func parseEnv(cfg *Config) error {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return applyEnv(cfg, environ)
}

func applyEnv(cfg *Config, environ map[string]string) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if ec.ServerURL != nil {
		cfg.ServerURL = *ec.ServerURL
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	return nil
}
