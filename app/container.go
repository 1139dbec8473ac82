package app

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/mb256/web/assets"
	"github.com/mb256/web/config"
	"github.com/mb256/web/handlers"
	"github.com/mb256/web/livereload"
	"github.com/mb256/web/render"
)

// NewContainer creates and wires up the dependencies shared by all handlers.
func NewContainer(cfg *config.Config, templatesFS, staticFS fs.FS) (*handlers.Container, error) {
	logger := NewLogger(cfg)

	a, err := assets.New(staticFS, cfg.Dev())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare assets: %w", err)
	}

	renderer, err := render.New(cfg, templatesFS, render.Funcs(a))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &handlers.Container{
		Config:   cfg,
		Logger:   logger,
		Renderer: renderer,
		Assets:   a,
		Reload:   livereload.NewHub(),
		Started:  time.Now(),
	}, nil
}

// NewLogger builds the application logger. Prod mode logs JSON for log
// collectors; dev mode logs text for humans. Unknown levels fall back to
// info.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Dev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
