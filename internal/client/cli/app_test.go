package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/sociopedia/internal/client/client"
	"github.com/dmitrijs2005/sociopedia/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a, err := NewApp(cfg)
	require.NoError(t, err)
	assert.IsType(t, &client.HTTPClient{}, a.api)
	assert.False(t, a.isLoggedIn())
}

func TestRun_FullSession(t *testing.T) {
	captureOutput(t)
	stubInputs(t, []string{"ada@example.com"}, "secret1")

	api := &fakeAPI{
		pingErr: client.ErrUnavailable,
		session: &client.Session{Token: "tok", User: client.User{FirstName: "Ada", Email: "ada@example.com"}},
		meUser:  &client.User{ID: "u1", Email: "ada@example.com"},
	}
	a, out := newTestApp(api, "login\nme\nexit\n")

	a.Run(context.Background())

	assert.Equal(t, "tok", api.meToken)
	assert.Contains(t, out.String(), "Welcome to sociopedia CLI")
	assert.Contains(t, out.String(), "Welcome, Ada!")
	assert.False(t, a.isLoggedIn(), "session is dropped on exit")
}
