package livereload

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + server.URL[len("http"):]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return ws
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.Handler))
	defer server.Close()

	ws := dialHub(t, server)
	defer ws.Close()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, hub.Clients())

	hub.Broadcast()

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.Handler))
	defer server.Close()

	ws := dialHub(t, server)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, hub.Clients())

	ws.Close()
	time.Sleep(100 * time.Millisecond)

	assert.NotPanics(t, hub.Broadcast)
	assert.Zero(t, hub.Clients())
}

func TestHubRejectsPlainRequests(t *testing.T) {
	hub := NewHub()

	req := httptest.NewRequest(http.MethodGet, "/__livereload", nil)
	w := httptest.NewRecorder()
	hub.Handler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, hub.Clients())
}
