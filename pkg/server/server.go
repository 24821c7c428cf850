// Package server hosts the Pulse ops HTTP server: health and metrics
// endpoints plus the instrumented application handler.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adastra-hq/pulse/pkg/config"
	"adastra-hq/pulse/pkg/metrics"
	"adastra-hq/pulse/pkg/middleware"
)

// Server wraps an application handler with the instrumentation chain and
// exposes the operational endpoints:
//
//	GET /health   per-sink health map from the collector
//	GET /metrics  Prometheus scrape endpoint (when the sink is enabled)
type Server struct {
	cfg          *config.ServerConfig
	collector    *metrics.Collector
	app          http.Handler
	registry     *prometheus.Registry
	instrument   *middleware.Config
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option customizes a Server at construction time.
type Option func(*Server)

// WithAppHandler mounts the application handler under "/". Requests to it
// flow through the full instrumentation chain.
func WithAppHandler(app http.Handler) Option {
	return func(s *Server) {
		s.app = app
	}
}

// WithPrometheusRegistry exposes the registry at /metrics.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithInstrumentConfig overrides the middleware defaults.
func WithInstrumentConfig(cfg *middleware.Config) Option {
	return func(s *Server) {
		s.instrument = cfg
	}
}

// NewServer creates the ops server around a collector.
func NewServer(cfg *config.ServerConfig, collector *metrics.Collector, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg,
		collector:    collector,
		instrument:   middleware.DefaultConfig(),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.cfg.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server, then gives the collector one final
// flush within the shutdown deadline. Metrics that cannot be delivered in
// time are dropped; telemetry never holds up process exit.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.cfg.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		if err := s.collector.Shutdown(shutdownCtx); err != nil {
			slog.Warn("collector final flush incomplete", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// Handler returns the fully assembled handler: routes wrapped in the chain
// Recovery -> RequestID -> Instrument. Instrumentation re-raises handler
// panics so they land in Recovery with metrics already emitted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.app != nil {
		mux.Handle("/", s.app)
	}

	var handler http.Handler = mux
	handler = middleware.Instrument(s.collector, s.instrument)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// healthResponse is the /health payload.
type healthResponse struct {
	Status    string          `json:"status"`
	Sinks     map[string]bool `json:"sinks"`
	Timestamp time.Time       `json:"timestamp"`
}

// handleHealth reports per-sink delivery health. Any unhealthy sink
// degrades the overall status: the process still serves traffic, but
// observability is impaired and probes should notice.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sinks := s.collector.HealthCheck()

	status := "ok"
	code := http.StatusOK
	for _, healthy := range sinks {
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    status,
		Sinks:     sinks,
		Timestamp: time.Now(),
	})
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
