// Package api serves assembled events, geometry and stored run snapshots
// over a small JSON REST API, together with Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server holds the API server state
type Server struct {
	source    EventSource
	snapshots SnapshotReader
	config    ServerConfig
	metrics   *Metrics
	logger    *slog.Logger
}

// NewServer creates a new API server
func NewServer(source EventSource, snapshots SnapshotReader, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		source:    source,
		snapshots: snapshots,
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Loaded stream
		r.Get("/stream", s.metrics.InstrumentHandler("GET", "/api/v1/stream", s.handleStream))
		r.Get("/events/{n}", s.metrics.InstrumentHandler("GET", "/api/v1/events/{n}", s.handleEvent))
		r.Get("/geometry/{n}", s.metrics.InstrumentHandler("GET", "/api/v1/geometry/{n}", s.handleGeometry))

		// Stored snapshots
		r.Get("/runs", s.metrics.InstrumentHandler("GET", "/api/v1/runs", s.handleRuns))
		r.Get("/runs/{run}", s.metrics.InstrumentHandler("GET", "/api/v1/runs/{run}", s.handleRun))
		r.Get("/runs/{run}/events/{n}", s.metrics.InstrumentHandler("GET", "/api/v1/runs/{run}/events/{n}", s.handleSnapshot))
	})

	return r
}

// Addr is the listen address derived from the config
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Bind, strconv.Itoa(s.config.Port))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting pfostream API server", "addr", httpServer.Addr, "auth", s.config.APIKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down API server")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
