package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/teemow/calassist/internal/logging"
)

const (
	// DefaultHTTPAddr is the default listen address of the web UI.
	DefaultHTTPAddr = ":8501"

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the keep-alive timeout for idle connections.
	DefaultIdleTimeout = 120 * time.Second
)

// WebServer serves the browser front-end.
type WebServer struct {
	httpServer *http.Server
	health     *HealthChecker
	logger     *slog.Logger
	addr       string
}

// NewWebServer creates a server for handler on addr. health may be nil.
func NewWebServer(addr string, handler http.Handler, health *HealthChecker, logger *slog.Logger) *WebServer {
	if addr == "" {
		addr = DefaultHTTPAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
		health: health,
		logger: logging.WithComponent(logger, "web_server"),
		addr:   addr,
	}
}

// StartWithReadySignal binds the listener, closes ready once it accepts
// connections, and serves until Shutdown is called. Write timeouts are left
// unset: a chat call lasts as long as the backend takes to answer.
func (s *WebServer) StartWithReadySignal(ready chan<- struct{}) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.addr = l.Addr().String()
	close(ready)

	s.logger.Info("starting web server", slog.String("addr", s.addr))
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server as not ready and drains open requests.
func (s *WebServer) Shutdown(ctx context.Context) error {
	if s.health != nil {
		s.health.MarkShuttingDown()
	}
	s.logger.Info("shutting down web server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the listen address, resolved once the server has started.
func (s *WebServer) Addr() string {
	return s.addr
}
