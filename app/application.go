// Package app owns the application lifecycle: wiring the container, the HTTP
// server and the dev mode file watcher behind live reload.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mb256/web/config"
	"github.com/mb256/web/handlers"
	"github.com/mb256/web/internal/middleware"
	"github.com/mb256/web/livereload"
	"github.com/mb256/web/routes"
)

// Application represents the running web service.
type Application struct {
	container  *handlers.Container
	httpServer *http.Server
	watcher    *livereload.Watcher
}

// NewApplication creates an application serving templates and static files
// from the given filesystems.
func NewApplication(cfg *config.Config, templatesFS, staticFS fs.FS) (*Application, error) {
	container, err := NewContainer(cfg, templatesFS, staticFS)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &Application{container: container}, nil
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.container.Logger
}

// Handler returns the full HTTP handler: all routes behind the default
// middleware chain.
func (a *Application) Handler() http.Handler {
	router := routes.Setup(a.container)
	chain := middleware.ChainMiddleware(
		middleware.DefaultMiddleware(a.container.Config, a.container.Logger)...,
	)
	return chain(router)
}

// Start brings up the HTTP server and, in dev mode, the file watcher that
// feeds live reload.
func (a *Application) Start() error {
	cfg := a.container.Config
	logger := a.container.Logger

	// No blanket write timeout: the live reload websocket stays open for as
	// long as the browser tab does.
	a.httpServer = &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	if cfg.Dev() {
		watcher, err := livereload.NewWatcher(
			[]string{cfg.Templates.Dir, cfg.HTTP.Dir},
			func() {
				logger.Debug("files changed, notifying clients")
				a.container.Reload.Broadcast()
			},
		)
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		a.watcher = watcher

		logger.Info("live reload enabled",
			slog.String("templates", cfg.Templates.Dir),
			slog.String("static", cfg.HTTP.Dir),
		)
	}

	go func() {
		logger.Info("HTTP server started",
			slog.String("port", cfg.HTTP.Port),
			slog.String("env", cfg.Site.Env),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	return nil
}

// Stop shuts the application down, letting in-flight requests finish.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.container.Logger.Warn("error closing file watcher", "error", err)
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	}

	return nil
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	if err := a.Start(); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	a.container.Logger.Info("shutting down")

	if err := a.Stop(); err != nil {
		return err
	}

	a.container.Logger.Info("application stopped")
	return nil
}
