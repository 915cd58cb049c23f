// Package server initializes and runs the application: it opens the
// identity store, wires the auth services and runs the HTTP and gRPC
// endpoints until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/server/config"
	"github.com/dmitrijs2005/sociopedia/internal/server/metrics"
	"github.com/dmitrijs2005/sociopedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sociopedia/internal/server/rest"
	"github.com/dmitrijs2005/sociopedia/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/sociopedia/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	keys        *auth.Keys
	metrics     *metrics.Metrics
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewLogger(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	keys, err := auth.NewKeys(c.SecretKey, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token keys init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	pool := auth.NewHashPool(auth.NewBcryptHasher(c.BcryptCost), c.HashWorkers)
	us, err := services.NewUserService(rm, pool, keys, logger)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, err
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		keys:        keys,
		metrics:     metrics.New(),
		userService: us,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.keys)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)

	h := rest.NewHandler(app.userService, app.repomanager, app.logger, app.metrics)
	cors := rest.DefaultCORSConfig()
	cors.AllowedOrigins = app.config.CORSAllowedOrigins
	router := rest.NewRouter(h, app.keys, app.logger, app.metrics, cors)
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, router)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or a server fails, then releases the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.EndpointAddrHTTP,
		"grpc", app.config.EndpointAddrGRPC,
		"token_ttl", app.config.AccessTokenValidityDuration.String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(context.WithoutCancel(ctx)); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
