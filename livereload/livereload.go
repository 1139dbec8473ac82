// Package livereload pushes reload notifications to browsers while the
// application runs in dev mode. Pages open a websocket and reload themselves
// when a template or asset changes on disk.
package livereload

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the connected browsers and broadcasts reload messages to them.
type Hub struct {
	clients  map[*websocket.Conn]bool
	lock     sync.Mutex
	upgrader websocket.Upgrader
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler upgrades the request to a websocket and keeps the connection
// registered until the client goes away. Failed upgrades are answered by the
// upgrader itself.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.lock.Lock()
	h.clients[conn] = true
	h.lock.Unlock()

	go func() {
		defer func() {
			h.lock.Lock()
			delete(h.clients, conn)
			h.lock.Unlock()
			conn.Close()
		}()

		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()
}

// Broadcast tells every connected client to reload. Connections that can no
// longer be written to are dropped.
func (h *Hub) Broadcast() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}
