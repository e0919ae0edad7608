// Package monitor streams LED frames to websocket viewers as JSON.
package monitor

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"libdb.so/flasher/board"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Frame is the state of the LEDs at a point in time.
type Frame struct {
	// Elapsed is the time since the board was configured, in milliseconds.
	// For the sim backend it is virtual time.
	Elapsed float64 `json:"elapsed_ms"`
	A       uint8   `json:"a"`
	C       uint8   `json:"c"`
	LEDs    [8]bool `json:"leds"`
}

// NewFrame creates a frame from the two register values.
func NewFrame(elapsed time.Duration, a, c uint8) Frame {
	return Frame{
		Elapsed: float64(elapsed) / float64(time.Millisecond),
		A:       a,
		C:       c,
		LEDs:    board.Lit(a, c),
	}
}

const clientBuffer = 64

// Server fans frames out to every connected viewer. Viewers that fall
// behind miss frames; a new viewer first gets the latest frame.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan []byte]struct{}
	last    []byte
	closed  bool

	closing chan struct{}
	conns   sync.WaitGroup
}

var _ http.Handler = (*Server)(nil)

// NewServer creates a new monitor server.
func NewServer(logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[chan []byte]struct{}),
		closing: make(chan struct{}),
	}
}

// Close disconnects every viewer and waits for their handlers to return.
// Viewers connecting afterwards are turned away.
func (s *Server) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.closing)
	}
	s.mu.Unlock()

	s.conns.Wait()
}

func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns.Add(1)
	return true
}

// Publish sends f to every viewer.
func (s *Server) Publish(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		s.logger.Warn("failed to marshal frame", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = b
	for ch := range s.clients {
		select {
		case ch <- b:
		default:
		}
	}
}

// Clients returns the number of connected viewers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		ch <- s.last
	}
	s.clients[ch] = struct{}{}
	return ch
}

func (s *Server) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, ch)
}

// ServeHTTP upgrades the request to a websocket and streams frames until the
// viewer goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgraded connections are hijacked, so the http.Server no longer
	// closes them.
	if !s.track() {
		http.Error(w, "monitor is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.conns.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("viewer connected", "remote", r.RemoteAddr)
	defer s.logger.Debug("viewer disconnected", "remote", r.RemoteAddr)

	frames := s.subscribe()
	defer s.unsubscribe(frames)

	// Viewers never send anything; reading only notices the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-s.closing:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(time.Second))
			return
		case b := <-frames:
			conn.SetWriteDeadline(time.Now().Add(time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves viewers on addr at /ws until ctx is done. It returns
// nil once ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "failed to listen for monitor")
	}
	return s.Serve(ctx, ln)
}

// Serve serves viewers on ln at /ws until ctx is done. Once ctx is done,
// every viewer is disconnected before Serve returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	srv := &http.Server{Handler: mux}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		srv.Close()
		s.Close()
	}()

	s.logger.Info("serving LED monitor", "addr", ln.Addr().String())

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "monitor server failed")
	}

	<-stopped
	return nil
}
