package handlers

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	h := NewHealthHandlers(testContainer(t, "prod"))

	w := httptest.NewRecorder()
	h.Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestInfo(t *testing.T) {
	c := testContainer(t, "prod")
	c.Started = time.Now().Add(-90 * time.Second)
	h := NewHealthHandlers(c)

	w := httptest.NewRecorder()
	h.Info(w, httptest.NewRequest(http.MethodGet, "/api/info", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var info SiteInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))

	assert.Equal(t, "web", info.Name)
	assert.Equal(t, runtime.Version(), info.Go)
	assert.Equal(t, "prod", info.Env)
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.StartedAgo)
	assert.GreaterOrEqual(t, info.UptimeSeconds, int64(90))
	assert.WithinDuration(t, c.Started.UTC(), info.Started, time.Second)
}
