package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testGuest   = "jane@example.com"
	testEventID = "evt-abc123"
)

var guestCall = ToolCall{
	Tool:      "event_get_guest",
	Operation: "event.get_guest",
	EventID:   testEventID,
	ReadOnly:  true,
}

// auditEntry logs ti through an audit logger with cfg and decodes the JSON record.
func auditEntry(t *testing.T, cfg AuditLoggingConfig, ti *ToolInvocation) (map[string]any, string) {
	t.Helper()

	var buf bytes.Buffer
	NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)), cfg).Log(context.Background(), ti)
	if buf.Len() == 0 {
		return nil, ""
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log %q: %v", buf.String(), err)
	}
	return entry, buf.String()
}

func TestToolInvocation_Finish(t *testing.T) {
	tests := []struct {
		name        string
		errorResult bool
		err         error
		wantStatus  string
		wantError   string
	}{
		{name: "success", wantStatus: StatusSuccess},
		{name: "error result", errorResult: true, wantStatus: StatusError},
		{name: "handler error", err: errors.New("guest not found"), wantStatus: StatusError, wantError: "guest not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti := BeginToolInvocation(context.Background(), guestCall, testGuest)
			if ti.Started.IsZero() {
				t.Fatal("Started not set")
			}
			ti.Finish(tt.errorResult, tt.err)

			if ti.Status() != tt.wantStatus {
				t.Errorf("Status() = %q, want %q", ti.Status(), tt.wantStatus)
			}
			if ti.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", ti.Error, tt.wantError)
			}
			if ti.Duration < 0 {
				t.Errorf("Duration = %v", ti.Duration)
			}
		})
	}
}

func TestBeginToolInvocation_CarriesSpanIDs(t *testing.T) {
	recordSpans(t)
	ctx, span := StartToolSpan(context.Background(), guestCall)
	defer span.End()

	ti := BeginToolInvocation(ctx, guestCall, "")
	if ti.TraceID != span.SpanContext().TraceID().String() || ti.SpanID != span.SpanContext().SpanID().String() {
		t.Errorf("trace context = %s/%s, want the tool span's", ti.TraceID, ti.SpanID)
	}

	ti = BeginToolInvocation(context.Background(), guestCall, "")
	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("trace context without span = %q/%q", ti.TraceID, ti.SpanID)
	}
}

func TestAuditLogger_Log(t *testing.T) {
	tests := []struct {
		name      string
		cfg       AuditLoggingConfig
		err       error
		wantLevel string
		wantMsg   string
		wantGuest bool
	}{
		{name: "success keeps guest domain only", cfg: AuditLoggingConfig{Enabled: true}, wantLevel: "INFO", wantMsg: auditMsgCompleted},
		{name: "failure at warn", cfg: AuditLoggingConfig{Enabled: true}, err: errors.New("boom"), wantLevel: "WARN", wantMsg: auditMsgFailed},
		{name: "PII included", cfg: AuditLoggingConfig{Enabled: true, IncludePII: true}, wantLevel: "INFO", wantMsg: auditMsgCompleted, wantGuest: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ti := BeginToolInvocation(context.Background(), guestCall, testGuest)
			ti.Finish(false, tt.err)

			entry, raw := auditEntry(t, tt.cfg, ti)
			if entry == nil {
				t.Fatal("no audit record written")
			}
			if entry["level"] != tt.wantLevel || entry["msg"] != tt.wantMsg {
				t.Errorf("level/msg = %v/%v, want %s/%s", entry["level"], entry["msg"], tt.wantLevel, tt.wantMsg)
			}
			if entry["component"] != "audit" {
				t.Errorf("component = %v, want audit", entry["component"])
			}
			if entry["tool"] != guestCall.Tool || entry["operation"] != guestCall.Operation || entry["event_api_id"] != testEventID {
				t.Errorf("call attributes missing: %s", raw)
			}
			if entry["read_only"] != true {
				t.Errorf("read_only = %v, want true", entry["read_only"])
			}
			if got := strings.Contains(raw, testGuest); got != tt.wantGuest {
				t.Errorf("full guest address present = %v, want %v", got, tt.wantGuest)
			}
			if !tt.wantGuest && entry["guest_domain"] != "example.com" {
				t.Errorf("guest_domain = %v, want example.com", entry["guest_domain"])
			}
			if tt.err != nil && entry["error"] != tt.err.Error() {
				t.Errorf("error = %v, want %v", entry["error"], tt.err)
			}
		})
	}
}

func TestNewAuditLogger_Disabled(t *testing.T) {
	al := NewAuditLogger(slog.Default(), AuditLoggingConfig{Enabled: false})
	if al != nil {
		t.Fatal("disabled audit logger should be nil")
	}

	// A nil logger must be safe to call.
	ti := BeginToolInvocation(context.Background(), guestCall, testGuest)
	ti.Finish(false, nil)
	al.Log(context.Background(), ti)

	if entry, _ := auditEntry(t, AuditLoggingConfig{}, ti); entry != nil {
		t.Errorf("disabled audit logger wrote %v", entry)
	}
}

func TestNewAuditLogger_NilLoggerUsesDefault(t *testing.T) {
	al := NewAuditLogger(nil, AuditLoggingConfig{Enabled: true})
	if al == nil || al.logger == nil {
		t.Fatal("expected audit logger backed by slog.Default")
	}
}
