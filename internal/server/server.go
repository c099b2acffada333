// Package server exposes the conversation service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DiazJL07/Braincare/internal/chat"
)

const (
	// ServiceName is reported by the health endpoint.
	ServiceName = "braincare-ia"

	// ReadHeaderTimeout guards against slow-header clients.
	ReadHeaderTimeout = 10 * time.Second

	// ShutdownTimeout is the maximum time to wait for in-flight requests on
	// shutdown.
	ShutdownTimeout = 15 * time.Second
)

// Session and user ids travel in headers, matching the existing frontend.
const (
	HeaderSessionID = "X-Session-ID"
	HeaderUserID    = "X-User-ID"
)

// Server wires the orchestrator to the HTTP surface.
type Server struct {
	orchestrator *chat.Orchestrator
	addr         string
	logger       *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server listening on addr.
func New(orchestrator *chat.Orchestrator, addr string, opts ...ServerOption) (*Server, error) {
	if orchestrator == nil {
		return nil, fmt.Errorf("server creation failed: orchestrator is required")
	}
	if addr == "" {
		return nil, fmt.Errorf("server creation failed: addr is required")
	}

	s := &Server{
		orchestrator: orchestrator,
		addr:         addr,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the full middleware-wrapped handler. Exposed so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /api/gemini", s.handleChat)
	mux.HandleFunc("GET /api/conversation", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/conversation", s.handleClearConversation)

	return s.withLogging(s.withCORS(mux))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", s.addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	//nolint:contextcheck // New context needed for graceful shutdown after parent cancellation
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
