package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ConfigFromEnv. The OTEL_* names follow the
// OpenTelemetry conventions; the rest are specific to eventcal.
const (
	EnvServiceName     = "OTEL_SERVICE_NAME"
	EnvInstanceID      = "OTEL_SERVICE_INSTANCE_ID"
	EnvOTLPEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvSamplingRate    = "OTEL_TRACES_SAMPLER_ARG"
	EnvEnabled         = "EVENTCAL_INSTRUMENTATION"
	EnvMetricsExporter = "EVENTCAL_METRICS_EXPORTER"
	EnvTracingExporter = "EVENTCAL_TRACING_EXPORTER"
	EnvDetailedLabels  = "EVENTCAL_METRICS_DETAILED_LABELS"
	EnvAuditEnabled    = "EVENTCAL_AUDIT_LOG"
	EnvAuditPII        = "EVENTCAL_AUDIT_LOG_PII"
)

// Label values and exporter names.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// Retry reasons recorded by the transport
	RetryReasonRateLimited = "rate_limited"
	RetryReasonTransient   = "transient"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

const defaultSamplingRate = 0.1

var (
	// ErrUnknownExporter is returned for an exporter name that is not supported.
	ErrUnknownExporter     = errors.New("unknown exporter")
	// ErrMissingOTLPEndpoint is returned when an OTLP exporter has no endpoint.
	ErrMissingOTLPEndpoint = errors.New("OTLP endpoint is required")
)

// Config controls the telemetry of `eventcal serve`.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// InstanceID defaults to the hostname when empty.
	InstanceID string

	// APIBaseURL is attached to every metric and span as eventcal.api.base_url
	// so telemetry from clients pointed at different API hosts stays apart.
	APIBaseURL string

	// Enabled turns metrics and tracing on (default true).
	Enabled bool

	// MetricsExporter is prometheus, otlp or stdout.
	MetricsExporter string
	// TracingExporter is otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme.
	OTLPEndpoint string
	// OTLPInsecure sends OTLP over plain HTTP. Development only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio in [0, 1].
	TraceSamplingRate float64

	// DetailedLabels adds the event API id to operation metrics.
	// Leave off in production: every event becomes a new series.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool audit log.
type AuditLoggingConfig struct {
	Enabled bool
	// IncludePII logs full guest addresses instead of their domain.
	IncludePII bool
}

// DefaultConfig reads the configuration from the process environment.
func DefaultConfig() Config {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, applying defaults for unset or
// unparsable values.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	env := envReader(lookup)

	return Config{
		ServiceName:       env.str(EnvServiceName, "eventcal"),
		ServiceVersion:    "unknown",
		InstanceID:        env.str(EnvInstanceID, ""),
		Enabled:           env.boolean(EnvEnabled, true),
		MetricsExporter:   env.str(EnvMetricsExporter, ExporterPrometheus),
		TracingExporter:   env.str(EnvTracingExporter, ExporterNone),
		OTLPEndpoint:      env.str(EnvOTLPEndpoint, ""),
		OTLPInsecure:      env.boolean(EnvOTLPInsecure, false),
		TraceSamplingRate: env.float(EnvSamplingRate, defaultSamplingRate),
		DetailedLabels:    env.boolean(EnvDetailedLabels, false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    env.boolean(EnvAuditEnabled, true),
			IncludePII: env.boolean(EnvAuditPII, false),
		},
	}
}

// Validate reports the first invalid setting. A disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0 and 1, got %g", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("metrics: %w", ErrMissingOTLPEndpoint)
		}
	default:
		return fmt.Errorf("metrics exporter %q: %w", c.MetricsExporter, ErrUnknownExporter)
	}

	switch c.TracingExporter {
	case ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("tracing: %w", ErrMissingOTLPEndpoint)
		}
	default:
		return fmt.Errorf("tracing exporter %q: %w", c.TracingExporter, ErrUnknownExporter)
	}
	return nil
}

type envReader func(string) (string, bool)

func (e envReader) str(key, def string) string {
	if v, ok := e(key); ok && v != "" {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.str(key, "")); err == nil {
		return b
	}
	return def
}

func (e envReader) float(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(e.str(key, ""), 64); err == nil {
		return f
	}
	return def
}
