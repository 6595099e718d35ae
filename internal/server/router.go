package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server/middleware"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))
	if s.config.CORSEnabled {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(s.config.CORSOrigins)))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "No route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	s.registerRoutes(r)
	return r
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(r chi.Router) {
	h := s.handlers
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	r.Get("/health", h.HandleHealth)

	r.Route(prefix, func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			APIKey:      s.config.APIKey,
			HeaderName:  s.config.AuthHeader,
			PublicPaths: []string{prefix + "/health"},
		}, s.logger))

		r.Get("/health", h.HandleHealth)
		r.Get("/stats", h.HandleStats)
		r.Post("/reconcile", h.HandleReconcile)
		r.Post("/flatten", h.HandleFlatten)
		r.Post("/validate", h.HandleValidate)
	})
}
