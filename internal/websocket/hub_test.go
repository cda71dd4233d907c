package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

// dialTestClient upgrades a real connection against an httptest server
// and registers it with the hub.
func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ServeWS(hub, conn, "test-trace")
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestClientReceivesConnectionGreeting(t *testing.T) {
	hub := testHub(t)
	conn := dialTestClient(t, hub)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeConnection, msg["type"])

	data, ok := msg["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connected", data["status"])
}

func TestBroadcastRefreshReachesClients(t *testing.T) {
	hub := testHub(t)
	conn := dialTestClient(t, hub)

	// Skip the greeting
	readMessage(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.BroadcastRefresh("processor", []string{"summary", "timeline"})

	msg := readMessage(t, conn)
	assert.Equal(t, TypeDataUpdate, msg["type"])
	assert.Equal(t, ActionRefresh, msg["action"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "processor", data["source"])
}

func TestBroadcastError(t *testing.T) {
	hub := testHub(t)
	conn := dialTestClient(t, hub)
	readMessage(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.BroadcastError("DATA_NOT_FOUND", "layoffs.csv missing")

	msg := readMessage(t, conn)
	assert.Equal(t, TypeError, msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "DATA_NOT_FOUND", data["code"])
}

func TestClientCountTracksDisconnects(t *testing.T) {
	hub := testHub(t)
	conn := dialTestClient(t, hub)
	readMessage(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.Start()
	hub.Stop()
	hub.Stop()
	assert.Zero(t, hub.ClientCount())
}
