package instrumentation

import (
	"errors"
	"strings"
	"testing"
)

func mapEnv(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv(mapEnv(nil))

	if cfg.ServiceName != "eventcal" {
		t.Errorf("ServiceName = %q, want eventcal", cfg.ServiceName)
	}
	if !cfg.Enabled {
		t.Error("expected instrumentation enabled by default")
	}
	if cfg.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want prometheus", cfg.MetricsExporter)
	}
	if cfg.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want none", cfg.TracingExporter)
	}
	if cfg.TraceSamplingRate != defaultSamplingRate {
		t.Errorf("TraceSamplingRate = %g, want %g", cfg.TraceSamplingRate, defaultSamplingRate)
	}
	if !cfg.AuditLogging.Enabled || cfg.AuditLogging.IncludePII {
		t.Errorf("AuditLogging = %+v, want enabled without PII", cfg.AuditLogging)
	}
	if cfg.DetailedLabels {
		t.Error("expected detailed labels off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	cfg := ConfigFromEnv(mapEnv(map[string]string{
		EnvServiceName:     "eventcal-staging",
		EnvInstanceID:      "pod-7",
		EnvEnabled:         "false",
		EnvMetricsExporter: ExporterOTLP,
		EnvTracingExporter: ExporterOTLP,
		EnvOTLPEndpoint:    "collector:4318",
		EnvOTLPInsecure:    "true",
		EnvSamplingRate:    "0.5",
		EnvDetailedLabels:  "1",
		EnvAuditEnabled:    "false",
		EnvAuditPII:        "true",
	}))

	want := Config{
		ServiceName:       "eventcal-staging",
		ServiceVersion:    "unknown",
		InstanceID:        "pod-7",
		Enabled:           false,
		MetricsExporter:   ExporterOTLP,
		TracingExporter:   ExporterOTLP,
		OTLPEndpoint:      "collector:4318",
		OTLPInsecure:      true,
		TraceSamplingRate: 0.5,
		DetailedLabels:    true,
		AuditLogging:      AuditLoggingConfig{Enabled: false, IncludePII: true},
	}
	if cfg != want {
		t.Errorf("ConfigFromEnv() =\n%+v\nwant\n%+v", cfg, want)
	}
}

func TestConfigFromEnv_MalformedValuesFallBack(t *testing.T) {
	cfg := ConfigFromEnv(mapEnv(map[string]string{
		EnvEnabled:      "sometimes",
		EnvSamplingRate: "most",
		EnvServiceName:  "",
	}))

	if !cfg.Enabled {
		t.Error("malformed bool should keep the default")
	}
	if cfg.TraceSamplingRate != defaultSamplingRate {
		t.Errorf("TraceSamplingRate = %g, want default", cfg.TraceSamplingRate)
	}
	if cfg.ServiceName != "eventcal" {
		t.Errorf("empty service name should keep the default, got %q", cfg.ServiceName)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "disabled skips checks", mutate: func(c *Config) { c.Enabled = false; c.MetricsExporter = "bogus" }},
		{name: "otlp with endpoint", mutate: func(c *Config) { c.TracingExporter = ExporterOTLP; c.OTLPEndpoint = "collector:4318" }},
		{name: "negative sampling", mutate: func(c *Config) { c.TraceSamplingRate = -0.5 }, wantMsg: "sampling rate"},
		{name: "sampling above one", mutate: func(c *Config) { c.TraceSamplingRate = 1.5 }, wantMsg: "sampling rate"},
		{name: "unknown metrics exporter", mutate: func(c *Config) { c.MetricsExporter = "statsd" }, wantErr: ErrUnknownExporter, wantMsg: "metrics exporter"},
		{name: "unknown tracing exporter", mutate: func(c *Config) { c.TracingExporter = "zipkin" }, wantErr: ErrUnknownExporter, wantMsg: "tracing exporter"},
		{name: "otlp metrics without endpoint", mutate: func(c *Config) { c.MetricsExporter = ExporterOTLP }, wantErr: ErrMissingOTLPEndpoint},
		{name: "otlp tracing without endpoint", mutate: func(c *Config) { c.TracingExporter = ExporterOTLP }, wantErr: ErrMissingOTLPEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil && tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}
