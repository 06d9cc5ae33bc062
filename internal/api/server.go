// Package api exposes the journal over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIServer runs an APIHandler on the configured port.
type APIServer struct {
	server *http.Server
	logger *zap.Logger
}

// NewAPIServer creates an APIServer listening on port.
func NewAPIServer(port int, handler http.Handler, logger *zap.Logger) *APIServer {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &APIServer{
		server: server,
		logger: logger.Named("api-server"),
	}
}

// Start binds the listener and serves in a new goroutine. Failures after the
// bind are logged.
func (s *APIServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("Starting API server", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
