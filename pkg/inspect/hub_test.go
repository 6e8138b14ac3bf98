package inspect

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHub_StalledClientIsDropped(t *testing.T) {
	old := writeWait
	writeWait = 100 * time.Millisecond
	t.Cleanup(func() { writeWait = old })

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()
	defer hub.Close()

	// The client never reads, so the socket buffers fill up.
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	payload := map[string]string{"data": strings.Repeat("x", 1<<20)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 256 && hub.ClientCount() > 0; i++ {
			hub.Broadcast(payload)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Broadcast blocked on a client that stopped reading")
	}
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("ClientCount() = %d, want the stalled client dropped", n)
	}
}
