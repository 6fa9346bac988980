// Package instrumentation provides OpenTelemetry instrumentation for eventcal.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for calendar API calls, retries and pagination
//   - Distributed tracing for API operations and MCP tool invocations
//   - Prometheus metrics export via a dedicated /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Transport Metrics (one sample per HTTP attempt):
//   - api_requests_total: Counter of attempts by method, path, and status code
//   - api_request_duration_seconds: Histogram of attempt durations
//   - api_retries_total: Counter of scheduled retries by path and reason
//     (rate_limited or transient)
//
// Operation Metrics (one sample per SDK call, retries included):
//   - api_operations_total: Counter of operations by name and status
//   - api_operation_duration_seconds: Histogram of operation durations
//   - pagination_pages_total: Counter of pages fetched by paginated operations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Calendar API operations (eventcal.<operation>), with a retry.scheduled
//     event for every backoff and a page.fetched event per page
//   - Outgoing HTTP attempts (via otelhttp)
//   - MCP tool invocations (tool.<name>)
//
// # Audit log
//
// Every tool call is logged once by AuditLogger, at warn when it failed.
// Guest addresses are reduced to their domain unless EVENTCAL_AUDIT_LOG_PII
// is set.
//
// # Configuration
//
// DefaultConfig reads the environment:
//   - EVENTCAL_INSTRUMENTATION: Enable/disable instrumentation (default: true)
//   - EVENTCAL_METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - EVENTCAL_TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - EVENTCAL_METRICS_DETAILED_LABELS: add event ids to operation metrics
//   - EVENTCAL_AUDIT_LOG, EVENTCAL_AUDIT_LOG_PII: tool audit log and full guest addresses
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE: OTLP collector
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: eventcal)
//   - OTEL_RESOURCE_ATTRIBUTES: extra resource attributes (k8s.pod.name, ...)
//
// The stdout exporters write to stderr so they never mix with the MCP stdio
// transport.
//
// # Example Usage
//
//	cfg := instrumentation.DefaultConfig()
//	cfg.APIBaseURL = client.BaseURL()
//	provider, err := instrumentation.NewProvider(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIOperation(ctx, "event.get", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
