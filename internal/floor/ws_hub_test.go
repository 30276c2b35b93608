package floor_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rosterbid/auction-engine/internal/floor"
	"github.com/rosterbid/auction-engine/internal/metrics"
)

// newWSServer starts a hub behind the full middleware stack the wired
// server uses, so upgrades are exercised through the wrapped
// ResponseWriter.
func newWSServer(t *testing.T) (*floor.WSHub, *httptest.Server) {
	t.Helper()
	hub := floor.NewWSHub()
	go hub.Run()

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/v1/ws", hub.HandleWS)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("ws dial failed (status %d): %v", status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// pumpBroadcasts re-sends a message until the test finishes, covering the
// window between the dial completing and the hub registering the client.
func pumpBroadcasts(t *testing.T, hub *floor.WSHub, msg floor.WSMessage) {
	t.Helper()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				hub.Broadcast(msg)
			}
		}
	}()
}

func TestHandleWS_UpgradeBehindMiddleware(t *testing.T) {
	hub, srv := newWSServer(t)
	conn := dialWS(t, srv)

	pumpBroadcasts(t, hub, floor.WSMessage{Type: "state_changed", Version: 3})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg floor.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Type != "state_changed" || msg.Version != 3 {
		t.Errorf("unexpected message: type=%q version=%d", msg.Type, msg.Version)
	}
}

func TestBroadcast_SurvivesClientDisconnect(t *testing.T) {
	hub, srv := newWSServer(t)

	stayer := dialWS(t, srv)
	leaver := dialWS(t, srv)
	leaver.Close()

	pumpBroadcasts(t, hub, floor.WSMessage{Type: "state_changed", Version: 9})

	// The remaining viewer keeps receiving while the hub drops the dead
	// connection from its client set.
	stayer.SetReadDeadline(time.Now().Add(3 * time.Second))
	for i := 0; i < 3; i++ {
		var msg floor.WSMessage
		if err := stayer.ReadJSON(&msg); err != nil {
			t.Fatalf("read %d after peer disconnect: %v", i, err)
		}
		if msg.Version != 9 {
			t.Errorf("unexpected version %d", msg.Version)
		}
	}
}
