package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

const (
	auditMsgCompleted = "tool call completed"
	auditMsgFailed    = "tool call failed"
)

// ToolInvocation is the audit record of one MCP tool call.
//
// Guest holds the guest address for tools that act on one guest. It is
// logged as its domain unless the audit log is configured with IncludePII.
type ToolInvocation struct {
	ToolCall
	Guest string

	Started  time.Time
	Duration time.Duration
	Failed   bool
	Error    string

	TraceID string
	SpanID  string
}

// BeginToolInvocation starts timing call. ctx should already carry the tool span.
func BeginToolInvocation(ctx context.Context, call ToolCall, guest string) *ToolInvocation {
	traceID, spanID := SpanIDs(ctx)
	return &ToolInvocation{
		ToolCall: call,
		Guest:    guest,
		Started:  time.Now(),
		TraceID:  traceID,
		SpanID:   spanID,
	}
}

// Finish stops the clock. The call failed if the handler returned err or an
// error result.
func (ti *ToolInvocation) Finish(errorResult bool, err error) {
	ti.Duration = time.Since(ti.Started)
	ti.Failed = errorResult || err != nil
	if err != nil {
		ti.Error = err.Error()
	}
}

// Status is the metrics label for the outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Failed {
		return StatusError
	}
	return StatusSuccess
}

func (ti *ToolInvocation) attrs(includePII bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("status", ti.Status()),
		slog.Duration("duration", ti.Duration),
		slog.Bool("read_only", ti.ReadOnly),
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.EventID != "" {
		attrs = append(attrs, slog.String("event_api_id", ti.EventID))
	}
	switch {
	case ti.Guest == "":
	case includePII:
		attrs = append(attrs, slog.String("guest", ti.Guest))
	default:
		attrs = append(attrs, slog.String("guest_domain", GuestDomain(ti.Guest)))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID), slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes one record per tool call. A nil *AuditLogger logs nothing.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
}

// NewAuditLogger returns nil when cfg is disabled. A nil logger means slog.Default.
func NewAuditLogger(logger *slog.Logger, cfg AuditLoggingConfig) *AuditLogger {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger.With(slog.String("component", "audit")),
		includePII: cfg.IncludePII,
	}
}

// Log writes ti at info, or at warn when the call failed.
func (a *AuditLogger) Log(ctx context.Context, ti *ToolInvocation) {
	if a == nil {
		return
	}
	level, msg := slog.LevelInfo, auditMsgCompleted
	if ti.Failed {
		level, msg = slog.LevelWarn, auditMsgFailed
	}
	a.logger.LogAttrs(ctx, level, msg, ti.attrs(a.includePII)...)
}
