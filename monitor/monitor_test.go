package monitor

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"libdb.so/flasher/board"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	s := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}

	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatalf("failed to decode frame %s: %v", b, err)
	}
	return f
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(1500*time.Microsecond, board.LED2, board.LED1)

	if f.Elapsed != 1.5 {
		t.Errorf("expected 1.5ms, got %v", f.Elapsed)
	}
	if want := [8]bool{true, true}; f.LEDs != want {
		t.Errorf("expected LED1 and LED2 lit, got %v", f.LEDs)
	}
}

func TestServerStreamsFrames(t *testing.T) {
	s, url := newTestServer(t)

	s.Publish(NewFrame(0, board.AllOnA, board.AllOnC))

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// The latest frame is replayed on connect.
	if f := readFrame(t, conn); f.A != board.AllOnA || f.C != board.AllOnC {
		t.Errorf("expected all on, got A=%06b C=%06b", f.A, f.C)
	}

	// Wait for the subscription before publishing again.
	for i := 0; s.Clients() == 0 && i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
	}

	s.Publish(NewFrame(75*time.Millisecond, 0, board.LED3))

	f := readFrame(t, conn)
	if f.A != 0 || f.C != board.LED3 {
		t.Errorf("expected only LED3, got A=%06b C=%06b", f.A, f.C)
	}
	if f.Elapsed != 75 {
		t.Errorf("expected 75ms, got %v", f.Elapsed)
	}
	if !f.LEDs[2] {
		t.Errorf("expected LED3 lit, got %v", f.LEDs)
	}
}

func TestServeClosesViewers(t *testing.T) {
	s := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	s.Publish(NewFrame(0, 0, board.LED1))
	if f := readFrame(t, conn); f.C != board.LED1 {
		t.Errorf("expected LED1, got C=%06b", f.C)
	}
	if n := s.Clients(); n != 1 {
		t.Fatalf("expected 1 viewer, got %d", n)
	}

	cancel()

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("expected nil after shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after its context was canceled")
	}

	if n := s.Clients(); n != 0 {
		t.Errorf("expected no viewers after shutdown, got %d", n)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected a going away close, got %v", err)
	}
}

func TestClosedServerRejectsViewers(t *testing.T) {
	s, url := newTestServer(t)
	s.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail after close")
	}
	if resp == nil || resp.StatusCode != 503 {
		t.Errorf("expected 503, got %v", resp)
	}
}
