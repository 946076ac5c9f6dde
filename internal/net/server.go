// Package net serves the board to browsers over HTTP and websockets and
// announces it on the local network.
package net

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/config"
	"SketchBoard/internal/logging"
)

//go:embed static/index.html
var indexHTML []byte

// Server hands every websocket connection its own board.
type Server struct {
	cfg      config.Config
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: logging.OrNop(logger).With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		sessions: make(map[string]*session),
	}
}

// Handler routes "/" to the drawing page and "/ws" to the board socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveIndex)
	mux.HandleFunc("GET /ws", s.serveWS)
	return mux
}

// ListenAndServe runs until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("board server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// sessionCount reports how many browsers are connected.
func (s *Server) sessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	sess, err := newSession(conn, s.cfg, s.log)
	if err != nil {
		s.log.Error("could not create board", "error", err)
		_ = conn.WriteJSON(Message{Type: MsgError, Error: err.Error()})
		conn.Close()
		return
	}
	s.add(sess, r.RemoteAddr)
	defer s.remove(sess)

	sess.send(sess.hello())
	sess.markDirty()
	go sess.writeLoop()

	err = sess.readLoop()
	close(sess.done)
	sess.board.History.Wait()
	conn.Close()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		sess.log.Warn("client dropped", "error", err)
	}
}

func (s *Server) add(sess *session, remote string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
	sess.log.Info("client connected", "remote", remote, "clients", len(s.sessions))
}

func (s *Server) remove(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
	sess.log.Info("client disconnected", "clients", len(s.sessions))
}
