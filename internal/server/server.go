// Package server exposes simulations, sweeps and saved scenarios over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/logging"
	"github.com/rgehrsitz/rothsim/internal/optimization"
	"github.com/rgehrsitz/rothsim/internal/storage"
	"github.com/rs/zerolog"
)

// Config holds server dependencies
type Config struct {
	Addr        string
	Log         zerolog.Logger
	Store       storage.Store
	Workers     int
	CORSOrigins []string
	DevMode     bool
}

// Server is the HTTP API server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	store   storage.Store
	engine  *calculation.Engine
	workers int
	parser  *config.InputParser
	cfg     Config
}

// New creates a server. A nil store disables the scenario and run endpoints.
func New(cfg Config) *Server {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	log := cfg.Log.With().Str("component", "server").Logger()
	engine := calculation.NewEngine()
	engine.SetLogger(logging.NewCalcLogger(cfg.Log))

	s := &Server{
		router:  chi.NewRouter(),
		log:     log,
		store:   cfg.Store,
		engine:  engine,
		workers: cfg.Workers,
		parser:  config.NewInputParser(),
		cfg:     cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5, "application/json", "text/plain"))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// The stream must not sit behind the request timeout
		r.Get("/optimize/stream", s.handleOptimizeStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(2 * time.Minute))

			r.Get("/scenario/default", s.handleDefaultScenario)
			r.Post("/simulate", s.handleSimulate)
			r.Post("/optimize/{type}", s.handleOptimize)
			r.Post("/grid", s.handleGrid)
			r.Post("/strategies", s.handleStrategies)

			r.Route("/scenarios", func(r chi.Router) {
				r.Use(s.requireStore)
				r.Get("/", s.handleListScenarios)
				r.Post("/", s.handleSaveScenario)
				r.Get("/{id}", s.handleGetScenario)
				r.Delete("/{id}", s.handleDeleteScenario)
				r.Post("/{id}/run", s.handleRunScenario)
			})

			r.With(s.requireStore).Get("/runs", s.handleListRuns)
		})
	})
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Int("workers", s.workers).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) optimizer(opts ...optimization.Option) *optimization.Optimizer {
	base := []optimization.Option{
		optimization.WithEngine(s.engine),
		optimization.WithWorkers(s.workers),
	}
	return optimization.NewOptimizer(append(base, opts...)...)
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			s.writeError(w, r, http.StatusServiceUnavailable, "storage is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
