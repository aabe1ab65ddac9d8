// Package reload pushes detected file changes to connected livereload
// clients over websockets, and exposes the watcher's HTTP surface (health
// check, Prometheus metrics).
package reload

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Event is the JSON payload broadcast to clients when a watch fires.
type Event struct {
	Pattern string    `json:"pattern"`
	Path    string    `json:"path"`
	At      time.Time `json:"at"`
}

// Hub tracks connected websocket clients and broadcasts change events to
// them. All methods are safe for concurrent use.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// add registers a client connection and starts a read loop whose only job
// is noticing when the client goes away.
func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	clientGauge.Set(float64(count))
	h.logger.Debug("reload client connected", zap.Int("clients", count))

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close()
		clientGauge.Set(float64(count))
		h.logger.Debug("reload client disconnected", zap.Int("clients", count))
	}
}

// Broadcast sends the event to every connected client. Clients whose
// writes fail are dropped; delivery is best effort.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	var failed []*websocket.Conn
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Warn("reload broadcast failed", zap.Error(err))
			failed = append(failed, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range failed {
		h.drop(conn)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	clientGauge.Set(0)
	return nil
}
