package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by eventcal.
const TracerName = "github.com/teemow/eventcal"

// Span attribute keys.
const (
	AttrTool        = attribute.Key("mcp.tool")
	AttrReadOnly    = attribute.Key("mcp.read_only")
	AttrOperation   = attribute.Key("eventcal.operation")
	AttrEventID     = attribute.Key("eventcal.event_api_id")
	AttrMethod      = attribute.Key("http.request.method")
	AttrPath        = attribute.Key("url.path")
	AttrAttempt     = attribute.Key("eventcal.retry.attempt")
	AttrRetryReason = attribute.Key("eventcal.retry.reason")
	AttrRetryDelay  = attribute.Key("eventcal.retry.delay_ms")
	AttrPageCursor  = attribute.Key("eventcal.page.has_cursor")
	AttrPageEntries = attribute.Key("eventcal.page.entries")

	// AttrToolErrorResult marks a tool call that returned an error result
	// rather than a Go error.
	AttrToolErrorResult = attribute.Key("mcp.tool.error_result")
)

// Span event names.
const (
	EventRetryScheduled = "retry.scheduled"
	EventPageFetched    = "page.fetched"
)

// ToolCall is what a tool span records about one MCP tool call.
type ToolCall struct {
	Tool      string
	Operation string
	// EventID is empty for tools that do not target a single event.
	EventID  string
	ReadOnly bool
}

func (c ToolCall) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		AttrTool.String(c.Tool),
		AttrReadOnly.Bool(c.ReadOnly),
	}
	if c.Operation != "" {
		attrs = append(attrs, AttrOperation.String(c.Operation))
	}
	if c.EventID != "" {
		attrs = append(attrs, AttrEventID.String(c.EventID))
	}
	return attrs
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts the server span "tool.<name>" for an MCP tool call.
func StartToolSpan(ctx context.Context, call ToolCall) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+call.Tool,
		trace.WithAttributes(call.attributes()...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartAPISpan starts the client span "eventcal.<operation>" around one API
// operation, including all of its retries.
func StartAPISpan(ctx context.Context, operation, method, path string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "eventcal."+operation,
		trace.WithAttributes(
			AttrOperation.String(operation),
			AttrMethod.String(method),
			AttrPath.String(path),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRetryEvent notes on span that attempt failed with reason and the
// next one starts after delay.
func RecordRetryEvent(span trace.Span, attempt int, reason string, delay time.Duration) {
	span.AddEvent(EventRetryScheduled, trace.WithAttributes(
		AttrAttempt.Int(attempt),
		AttrRetryReason.String(reason),
		AttrRetryDelay.Int64(delay.Milliseconds()),
	))
}

// RecordPageEvent notes a fetched page on the span in ctx.
func RecordPageEvent(ctx context.Context, operation string, hasCursor bool, entries int) {
	trace.SpanFromContext(ctx).AddEvent(EventPageFetched, trace.WithAttributes(
		AttrOperation.String(operation),
		AttrPageCursor.Bool(hasCursor),
		AttrPageEntries.Int(entries),
	))
}

// SpanIDs returns the trace and span ids of the span in ctx, or empty
// strings when there is none.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
