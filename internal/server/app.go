// Package server runs the development backend: it seeds a demo account,
// serves the HTTP API and shuts down gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/logging"
	"github.com/dmitrijs2005/gatewayclient/internal/server/config"
	"github.com/dmitrijs2005/gatewayclient/internal/server/cookies"
	"github.com/dmitrijs2005/gatewayclient/internal/server/httpapi"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	users := httpapi.NewUsers()
	if c.DemoUser != "" {
		if c.DemoPassword == "" {
			return nil, fmt.Errorf("demo user %q has no password", c.DemoUser)
		}
		demo := httpapi.Profile{Username: c.DemoUser, Firstname: "Demo", Email: c.DemoUser + "@example.com"}
		if err := users.Add(demo, c.DemoPassword); err != nil {
			return nil, fmt.Errorf("seed demo user: %w", err)
		}
	}

	api := httpapi.New(users, httpapi.Options{
		SecretKey:       []byte(c.SecretKey),
		AccessTokenTTL:  c.AccessTokenTTL,
		RefreshTokenTTL: c.RefreshTokenTTL,
		Cookies:         cookies.Manager{Insecure: c.InsecureCookies},
		Logger:          logger,
	})

	return &App{config: c, logger: logger, api: api}, nil
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

// serve accepts connections on l until ctx is done, then shuts the server
// down gracefully.
func (app *App) serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: app.api.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	l, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := app.serve(ctx, l); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
