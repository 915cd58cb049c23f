package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-g", "127.0.0.1:9090", "-d", "postgres://db", "-s", "secret-0123456789",
				"-t", "5", "-b", "6", "-w", "2", "-l", "debug", "-f", "text",
			},
			expected: &Config{
				EndpointAddrHTTP:            "127.0.0.1:8080",
				EndpointAddrGRPC:            "127.0.0.1:9090",
				DatabaseDSN:                 "postgres://db",
				SecretKey:                   "secret-0123456789",
				AccessTokenValidityDuration: 5 * time.Minute,
				BcryptCost:                  6,
				HashWorkers:                 2,
				LogLevel:                    "debug",
				LogFormat:                   "text",
			},
		},
		{
			name: "unrelated flags are ignored",
			args: []string{"cmd", "-c", "cfg.json", "-env", "x.env", "-a", ":1"},
			expected: &Config{
				EndpointAddrHTTP: ":1",
				SecretKey:        "kept-secret-0123456",
			},
		},
		{
			name:    "bad int",
			args:    []string{"cmd", "-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{SecretKey: "kept-secret-0123456"}
			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestParseFlags_SecretNotOverriddenWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	cfg := &Config{SecretKey: auth.Secret("from-env-0123456789"), AccessTokenValidityDuration: 90 * time.Second}
	require.NoError(t, parseFlags(cfg))

	assert.Equal(t, auth.Secret("from-env-0123456789"), cfg.SecretKey)
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration, "sub-minute ttl survives when -t is absent")
}

func TestParseFlags_CORSOrigins(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-o", "https://a.example,https://b.example"}
	cfg := &Config{CORSAllowedOrigins: []string{"*"}}
	require.NoError(t, parseFlags(cfg))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	os.Args = []string{"cmd"}
	cfg = &Config{CORSAllowedOrigins: []string{"*"}}
	require.NoError(t, parseFlags(cfg))
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}
