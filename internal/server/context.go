package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/calendar"
	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/instrumentation"
)

// ErrNoClient is returned by NewServerContext without an API client.
var ErrNoClient = errors.New("server: API client is required")

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	client   *eventcal.Client
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	logger   *slog.Logger
	readOnly bool
	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext
type Option func(*ServerContext)

// WithMetrics sets the recorder used for tool metrics
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		if m != nil {
			sc.metrics = m
		}
	}
}

// WithAuditLogger sets the audit logger for tool invocations
func WithAuditLogger(a *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.audit = a
	}
}

// WithLogger sets the server logger
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithReadOnly controls whether write tools are registered
func WithReadOnly(readOnly bool) Option {
	return func(sc *ServerContext) {
		sc.readOnly = readOnly
	}
}

// NewServerContext creates a new server context around client.
// The context is read-only unless WithReadOnly(false) is given.
func NewServerContext(ctx context.Context, client *eventcal.Client, opts ...Option) (*ServerContext, error) {
	if client == nil {
		return nil, ErrNoClient
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		client:   client,
		metrics:  &instrumentation.Metrics{},
		logger:   slog.Default(),
		readOnly: true,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the API client
func (sc *ServerContext) Client() *eventcal.Client {
	return sc.client
}

// Calendar returns the calendar endpoints
func (sc *ServerContext) Calendar() *calendar.Manager {
	return sc.client.Calendar()
}

// Events returns the event endpoints
func (sc *ServerContext) Events() *event.Manager {
	return sc.client.Events()
}

// Metrics returns the metrics recorder. Never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil if auditing is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.audit
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// ReadOnly reports whether write tools are disabled
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
