package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Start runs the HTTP server until it is shut down.
// WriteTimeout stays generous: SSE log streams emit heartbeats every 15
// seconds and pipeline runs can take minutes on large petitions.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.Config().Port),
		Handler:      s.buildHTTPHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	Logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and closes the databases
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}

	if err := s.votersDB.Close(); err != nil {
		Logger.Error("Failed to close voters database", "error", err)
	}
	if err := s.serviceDB.Close(); err != nil {
		Logger.Error("Failed to close service database", "error", err)
	}

	Logger.Info("Server stopped")
	return nil
}
