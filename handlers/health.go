package handlers

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/encoding/json"

	"github.com/mb256/web/internal/build"
)

// HealthHandlers serves the health and service info endpoints
type HealthHandlers struct {
	container *Container
}

// NewHealthHandlers creates a new HealthHandlers instance
func NewHealthHandlers(container *Container) *HealthHandlers {
	return &HealthHandlers{container: container}
}

// Healthz reports liveness for load balancers and probes.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.container.Logger, map[string]string{"status": "ok"})
}

// SiteInfo describes the running service.
type SiteInfo struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Go            string    `json:"go"`
	Env           string    `json:"env"`
	Started       time.Time `json:"started"`
	StartedAgo    string    `json:"started_ago"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// Info returns build and uptime details as JSON.
func (h *HealthHandlers) Info(w http.ResponseWriter, r *http.Request) {
	started := h.container.Started
	info := SiteInfo{
		Name:          h.container.Config.Site.Name,
		Version:       build.String(),
		Go:            runtime.Version(),
		Env:           h.container.Config.Site.Env,
		Started:       started.UTC(),
		StartedAgo:    humanize.Time(started),
		UptimeSeconds: int64(time.Since(started).Seconds()),
	}
	writeJSON(w, h.container.Logger, info)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("cannot encode response", "error", err)
	}
}
