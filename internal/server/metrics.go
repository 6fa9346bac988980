package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/teemow/eventcal/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where /metrics is served unless configured otherwise.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds the graceful shutdown of the HTTP servers.
	DefaultShutdownTimeout = 30 * time.Second

	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

var (
	// ErrTelemetryDisabled is returned when the provider collects nothing.
	ErrTelemetryDisabled    = errors.New("instrumentation is disabled")
	// ErrNoPrometheusExporter is returned when metrics go to another exporter,
	// so there is nothing to scrape.
	ErrNoPrometheusExporter = errors.New("metrics exporter is not prometheus")
)

// MetricsServer serves /metrics and the health endpoints on a port of its
// own, away from MCP traffic.
type MetricsServer struct {
	listener   net.Listener
	httpServer *http.Server
	logger     *slog.Logger
}

// ListenMetrics binds addr and returns a server ready to Serve. Binding up
// front surfaces a bad or busy address to the caller. health may be nil.
func ListenMetrics(addr string, provider *instrumentation.Provider, health *HealthChecker, logger *slog.Logger) (*MetricsServer, error) {
	if provider == nil || !provider.Enabled() {
		return nil, ErrTelemetryDisabled
	}
	metrics := provider.MetricsHandler()
	if metrics == nil {
		return nil, ErrNoPrometheusExporter
	}
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return &MetricsServer{
		listener: ln,
		httpServer: &http.Server{
			Handler:           metricsMux(metrics, health),
			ReadHeaderTimeout: metricsReadHeaderTimeout,
			WriteTimeout:      metricsWriteTimeout,
			IdleTimeout:       metricsIdleTimeout,
		},
		logger: logger.With(slog.String("component", "metrics")),
	}, nil
}

func metricsMux(metrics http.Handler, health *HealthChecker) *http.ServeMux {
	if health == nil {
		health = NewHealthChecker(nil)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)
	health.RegisterHealthEndpoints(mux)
	return mux
}

// Addr is the bound address, with the actual port when ":0" was requested.
func (s *MetricsServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until the server stops. It returns nil after Shutdown.
func (s *MetricsServer) Serve() error {
	s.logger.Info("metrics server listening", slog.String("addr", s.Addr()))
	if err := s.httpServer.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting scrapes and waits for in-flight ones.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down metrics server: %w", err)
	}
	// Serve may never have taken ownership of the listener.
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close metrics listener: %w", err)
	}
	return nil
}
