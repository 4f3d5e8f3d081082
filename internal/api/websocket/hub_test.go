package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var received Event
	require.NoError(t, json.Unmarshal(message, &received))
	return received
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, hub.BroadcastEvent(Event{Type: "goals:changed"}))
}

func TestHub_BroadcastToEveryClient(t *testing.T) {
	hub, url := startHub(t)

	conns := []*websocket.Conn{dial(t, url), dial(t, url), dial(t, url)}
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 10*time.Millisecond)

	hub.BroadcastEvent(Event{Type: "events:changed", Data: map[string]int{"id": 42}})

	for _, conn := range conns {
		received := readEvent(t, conn)
		assert.Equal(t, "events:changed", received.Type)
		assert.Equal(t, map[string]interface{}{"id": float64(42)}, received.Data)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_Stop(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Stop()
	hub.Stop()
	require.Eventually(t, hub.IsStopped, time.Second, 10*time.Millisecond)
	assert.False(t, hub.BroadcastEvent(Event{Type: "late"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection should be closed after stop")

	w := httptest.NewRecorder()
	hub.ServeWs(w, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
