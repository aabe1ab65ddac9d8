package reload

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHub starts an HTTP server around a fresh hub and registers
// cleanup with t.Cleanup.
func setupTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dialReload(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/reload"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialReload: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
}

func TestBroadcastReachesClient(t *testing.T) {
	hub, srv := setupTestHub(t)
	conn := dialReload(t, srv)
	waitForClients(t, hub, 1)

	sent := Event{
		Pattern: "shaders/shader.*",
		Path:    "shaders/shader.*",
		At:      time.Now().UTC(),
	}
	hub.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sent.Pattern, got.Pattern)
	assert.Equal(t, sent.Path, got.Path)
}

func TestBroadcastToMultipleClients(t *testing.T) {
	hub, srv := setupTestHub(t)
	first := dialReload(t, srv)
	second := dialReload(t, srv)
	waitForClients(t, hub, 2)

	hub.Broadcast(Event{Pattern: "cfg.json", Path: "cfg.json", At: time.Now()})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "cfg.json", got.Pattern)
	}
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	hub, srv := setupTestHub(t)
	conn := dialReload(t, srv)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting with no clients is a no-op.
	hub.Broadcast(Event{Pattern: "cfg.json", Path: "cfg.json", At: time.Now()})
}

func TestHealthz(t *testing.T) {
	_, srv := setupTestHub(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := setupTestHub(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClosedHubRejectsClients(t *testing.T) {
	hub, srv := setupTestHub(t)
	hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/reload"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		// The upgrade may succeed before the hub closes the connection;
		// either way no client stays registered.
		conn.Close()
	}
	assert.Equal(t, 0, hub.ClientCount())
}
