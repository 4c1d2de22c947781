// Package diagsrv runs the optional debug HTTP server schedloopd exposes
// for diagnosing a stuck driver loop in production.
//
// Grounded on pewbot/internal/core/pprof_server.go: same listen/shutdown
// lifecycle, retargeted to logx.Logger instead of log/slog.
package diagsrv

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"schedloop/internal/config"
	logx "schedloop/pkg/logx"
)

const defaultAddr = "127.0.0.1:6060"

// Server manages the lifecycle of the debug HTTP listener.
type Server struct {
	mu   sync.Mutex
	log  logx.Logger
	srv  *http.Server
	ln   net.Listener
	addr string
}

func New(log logx.Logger) *Server {
	return &Server{log: log.With(logx.String("component", "diagsrv"))}
}

// Apply starts/stops the server to match cfg. Safe to call repeatedly,
// e.g. from a config hot-reload subscriber.
func (s *Server) Apply(ctx context.Context, cfg config.PprofConfig) {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !cfg.Enabled {
		s.stopLocked(ctx)
		return
	}
	if s.srv != nil && s.addr == addr {
		return
	}
	s.stopLocked(ctx)
	s.startLocked(addr)
}

func (s *Server) startLocked(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.log.Warn("diagsrv: listen failed", logx.String("addr", addr), logx.Err(err))
		return
	}

	srv := &http.Server{Addr: addr, Handler: mux}
	s.srv = srv
	s.ln = ln
	s.addr = ln.Addr().String()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("diagsrv: server error", logx.String("addr", addr), logx.Err(err))
		}
	}()
	s.log.Info("diagsrv: enabled", logx.String("addr", s.addr))
}

func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(ctx)
}

func (s *Server) stopLocked(ctx context.Context) {
	if s.srv == nil {
		return
	}
	srv := s.srv
	ln := s.ln
	addr := s.addr
	s.srv, s.ln, s.addr = nil, nil, ""

	shutdownCtx := ctx
	if shutdownCtx == nil {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warn("diagsrv: shutdown error", logx.String("addr", addr), logx.Err(err))
	}
	if ln != nil {
		_ = ln.Close()
	}
	s.log.Info("diagsrv: disabled", logx.String("addr", addr))
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
