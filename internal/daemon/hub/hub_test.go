package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Seq int `json:"seq"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubInitialAndBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New()
	go h.Run(ctx)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, frame{Seq: 0})
	}))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	if got := readFrame(t, a); got.Seq != 0 {
		t.Errorf("initial frame = %+v", got)
	}
	if got := readFrame(t, b); got.Seq != 0 {
		t.Errorf("initial frame = %+v", got)
	}
	waitClients(t, h, 2)

	if ok, err := h.Broadcast(frame{Seq: 1}); !ok || err != nil {
		t.Fatalf("Broadcast = %v, %v", ok, err)
	}
	if got := readFrame(t, a); got.Seq != 1 {
		t.Errorf("a got %+v", got)
	}
	if got := readFrame(t, b); got.Seq != 1 {
		t.Errorf("b got %+v", got)
	}

	a.Close()
	waitClients(t, h, 1)
}

func TestBroadcastEncodeError(t *testing.T) {
	h := New()
	if _, err := h.Broadcast(make(chan int)); err == nil {
		t.Error("expected encode error")
	}
}
