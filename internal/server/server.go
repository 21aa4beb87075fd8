// Package server exposes the trend service over HTTP for the browser front end.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abdulachik/trendcast/internal/scheduler"
	"github.com/abdulachik/trendcast/internal/trends"
)

// TrendService is the part of trends.Service the API needs.
type TrendService interface {
	FetchTrends(ctx context.Context, req trends.Request) trends.Data
	ClearCache()
}

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Config holds server configuration.
type Config struct {
	Addr            string
	CORSOrigins     []string
	DefaultLanguage trends.Language
	Service         TrendService
	Health          *scheduler.Health // Optional
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", headerProvider, headerAPIKey},
		MaxAge:         300,
	}))

	health := cfg.Health
	if health == nil {
		health = scheduler.NewHealth()
	}
	h := newTrendHandler(cfg.Service, cfg.DefaultLanguage)

	router.Get("/healthz", healthHandler(health))

	router.Route("/api/trends", func(r chi.Router) {
		r.Get("/", h.GetTrends)
		r.Post("/refresh", h.Refresh)
		r.Get("/prompt", h.GetPrompt)
	})

	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      90 * time.Second,
		},
		router: router,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
