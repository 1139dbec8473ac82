package handlers

import (
	"log/slog"
	"time"

	"github.com/mb256/web/assets"
	"github.com/mb256/web/config"
	"github.com/mb256/web/livereload"
	"github.com/mb256/web/render"
)

// Container holds dependencies for handlers
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Renderer *render.Renderer
	Assets   *assets.Assets
	Reload   *livereload.Hub
	Started  time.Time
}
