package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/instrumentation"
	"github.com/teemow/eventcal/internal/resources"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/calendar_tools"
	"github.com/teemow/eventcal/internal/tools/event_tools"
)

// Supported MCP transports.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveOptions holds the resolved serve settings.
type serveOptions struct {
	Transport        string
	HTTPAddr         string
	Yolo             bool
	DisableStreaming bool
	MetricsEnabled   bool
	MetricsAddr      string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide calendar and
event tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Safety Mode:
  By default, the server operates in read-only mode, providing only listing
  and lookup tools. Use --yolo to enable write operations (creating events,
  adding guests and hosts, managing coupons, importing people).

Metrics:
  With the streamable-http transport, Prometheus metrics are served on a
  dedicated port (--metrics-addr) unless --metrics-enabled=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolveServeOptions(cmd, &opts)
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations. Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.DisableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&opts.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// resolveServeOptions fills settings that were not given as flags from the
// config file and the environment.
func resolveServeOptions(cmd *cobra.Command, opts *serveOptions) {
	flags := cmd.Flags()

	if !flags.Changed("transport") && cfg.Server.Transport != "" {
		opts.Transport = cfg.Server.Transport
	}
	if !flags.Changed("http-addr") && cfg.Server.HTTPAddr != "" {
		opts.HTTPAddr = cfg.Server.HTTPAddr
	}
	if !flags.Changed("yolo") && cfg.Server.Yolo {
		opts.Yolo = true
	}
	if !flags.Changed("metrics-enabled") && os.Getenv("METRICS_ENABLED") == "false" {
		opts.MetricsEnabled = false
	}
	if !flags.Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.MetricsAddr = addr
		} else if cfg.Server.MetricsAddr != "" {
			opts.MetricsAddr = cfg.Server.MetricsAddr
		}
	}
}

func runServe(ctx context.Context, opts serveOptions) error {
	if opts.Transport != transportStdio && opts.Transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}

	// Setup graceful shutdown
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.APIBaseURL = cfg.API.BaseURL

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	clientOpts := cfg.ClientOptions(logger)
	if provider.Enabled() {
		clientOpts.Metrics = provider.Metrics()
	}
	client, err := eventcal.New(clientOpts)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithReadOnly(!opts.Yolo),
	}
	if provider.Enabled() {
		serverOpts = append(serverOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)),
		)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, client, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", "error", err)
		}
	}()

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}
	if err := resources.RegisterResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	if serverContext.ReadOnly() {
		logger.Info("starting server in READ-ONLY mode (use --yolo to enable write operations)")
	} else {
		logger.Warn("starting server with WRITE operations enabled (--yolo flag is set)")
	}

	switch opts.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		healthChecker := server.NewHealthChecker(serverContext)

		if opts.MetricsEnabled {
			metricsServer, err := startMetricsServer(opts.MetricsAddr, provider, healthChecker)
			switch {
			case errors.Is(err, server.ErrTelemetryDisabled), errors.Is(err, server.ErrNoPrometheusExporter):
				logger.Info("metrics server not started", "reason", err)
			case err != nil:
				return err
			default:
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := metricsServer.Shutdown(ctx); err != nil {
						logger.Warn("error during metrics server shutdown", "error", err)
					}
				}()
			}
		}

		return runStreamableHTTPServer(shutdownCtx, mcpSrv, healthChecker, opts)
	}
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("eventcal", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc)
			},
		},
		{
			name: "Event",
			register: func() error {
				return event_tools.RegisterEventTools(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

// startMetricsServer binds the metrics port and serves it in the background.
func startMetricsServer(addr string, provider *instrumentation.Provider, health *server.HealthChecker) (*server.MetricsServer, error) {
	metricsServer, err := server.ListenMetrics(addr, provider, health, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Serve(); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	return metricsServer, nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, health *server.HealthChecker, opts serveOptions) error {
	httpServer := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Addr:             opts.HTTPAddr,
		DisableStreaming: opts.DisableStreaming,
		Health:           health,
	})

	logger.Info("streamable HTTP server starting",
		"addr", opts.HTTPAddr,
		"endpoint", server.MCPEndpointPath,
		"health", "/healthz, /readyz",
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
