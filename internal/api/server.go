// Package api exposes the chatbot over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/logger"
)

// Server represents the HTTP API server
// ⭐ SSOT: listener settings live here
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

// New creates a new API server.
// The write timeout covers the slowest answer: every completion retry plus its delays.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	llm := cfg.LLM
	writeTimeout := time.Duration(llm.MaxRetries)*(llm.Timeout+llm.RetryDelay) + 15*time.Second

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving until Shutdown
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"port": s.config.Port,
		"env":  s.config.Env,
	}).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
