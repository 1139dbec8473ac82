package statuspage

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_HTMLWhenAccepted(t *testing.T) {
	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	rec := httptest.NewRecorder()

	err := DefaultWriter.Write(rec, req, http.StatusNotFound)
	assert.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>404</h1>")
	assert.Contains(t, rec.Body.String(), StatusMessage(http.StatusNotFound))
}

func TestWriter_TextForNonBrowserClients(t *testing.T) {
	tests := []struct {
		name   string
		accept string
	}{
		{"No accept header", ""},
		{"Wildcard only", "*/*"},
		{"Plain text", "text/plain"},
		{"JSON client", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/missing", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			err := DefaultWriter.Write(rec, req, http.StatusNotFound)
			assert.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), "404 Not Found"))
			assert.NotContains(t, rec.Body.String(), "<html")
		})
	}
}

func TestWriter_CustomMessage(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	err := DefaultWriter.WriteMessage(rec, req, http.StatusServiceUnavailable, "Down for maintenance.")
	assert.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Down for maintenance.")
}

func TestWriter_Handler(t *testing.T) {
	handler := DefaultWriter.Handler(http.StatusNotFound)

	req := httptest.NewRequest("GET", "/nothing/here", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		code     int
		contains string
	}{
		{http.StatusNotFound, "doesn't exist"},
		{http.StatusTooManyRequests, "too quickly"},
		{http.StatusInternalServerError, "our side"},
		{http.StatusTeapot, "something went wrong"},
		{http.StatusOK, "That's all we know."},
	}

	for _, tt := range tests {
		assert.Contains(t, StatusMessage(tt.code), tt.contains, "status %d", tt.code)
	}
}
