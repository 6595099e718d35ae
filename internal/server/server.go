// Package server provides the HTTP review API for reconciliation runs.
//
// Reviewers post a catalog and an optional prior plan and get back the
// reconciliation report, merged plan included. The server is stateless apart
// from run statistics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server/handlers"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	handlers  *handlers.Handlers
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	defaults := DefaultConfig()
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}

	start := time.Now()
	h, err := handlers.New(app, logger, handlers.Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		StartTime:    start,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Int64("max_body_bytes", cfg.MaxBodyBytes).
		Bool("auth", cfg.APIKey != "").
		Msg("Server instance created")

	return &Server{
		app:       app,
		handlers:  h,
		logger:    logger,
		config:    cfg,
		startTime: start,
	}, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown logs the final run statistics. In-flight requests are drained by
// http.Server.Shutdown; reconciliation runs observe their request context.
func (s *Server) Shutdown(_ context.Context) error {
	stats := s.handlers.Stats()
	s.logger.Info().
		Int64("runs", stats.Runs).
		Int64("failures", stats.Failures).
		Dur("uptime", time.Since(s.startTime)).
		Msg("Review API stopped")
	return nil
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
