package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sociopedia/internal/client/client"
	"github.com/dmitrijs2005/sociopedia/internal/client/config"
	"github.com/dmitrijs2005/sociopedia/internal/logging"
)

type App struct {
	config  *config.Config
	api     client.Client
	logger  logging.Logger
	session *client.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.NewLogger(os.Stderr, "info", "text")
	if err != nil {
		return nil, err
	}
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return newApp(c, api, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to sociopedia CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server is not reachable", "url", a.config.ServerURL, "error", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	a.session = nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.User.Email)
}
