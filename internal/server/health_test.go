package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventcal/eventcal"
)

func newTestServerContext(t *testing.T, opts ...Option) *ServerContext {
	t.Helper()

	client, err := eventcal.New(eventcal.Options{APIKey: "test-key", BaseURL: "https://api.test.invalid"})
	require.NoError(t, err)

	sc, err := NewServerContext(context.Background(), client, opts...)
	require.NoError(t, err)
	return sc
}

func TestNewServerContext(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoClient)

	sc := newTestServerContext(t)
	assert.True(t, sc.ReadOnly())
	assert.NotNil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
	assert.NotNil(t, sc.Calendar())
	assert.NotNil(t, sc.Events())

	sc = newTestServerContext(t, WithReadOnly(false))
	assert.False(t, sc.ReadOnly())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// Idempotent
	assert.NoError(t, sc.Shutdown())
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := newTestServerContext(t)
	h := NewHealthChecker(sc)

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["api_client"])

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "shutting down")
}

func TestHealthChecker_ReadinessWithoutClient(t *testing.T) {
	h := NewHealthChecker(&ServerContext{})

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, errClientMissing.Error(), resp.Checks["api_client"])
	assert.Equal(t, "ok", resp.Checks["shutdown"])
}

func TestHealthChecker_AddCheck(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t))

	var gotDeadline bool
	h.AddCheck("rate_limit", func(ctx context.Context) error {
		_, gotDeadline = ctx.Deadline()
		return errors.New("throttled by API")
	})

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, gotDeadline, "checks run with a timeout")

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "throttled by API", resp.Checks["rate_limit"])
	assert.Equal(t, "ok", resp.Checks["api_client"])

	h.AddCheck("rate_limit", func(context.Context) error { return nil })
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthChecker_Detailed(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, WithReadOnly(false)))

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "https://api.test.invalid", resp.APIBase)
	assert.False(t, resp.ReadOnly)
}

func TestHealthChecker_DetailedReadOnly(t *testing.T) {
	sc := newTestServerContext(t)
	h := NewHealthChecker(sc)

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.ReadOnly)
	assert.Equal(t, "ok", resp.Checks["api_client"])
	assert.NotEmpty(t, resp.Uptime)

	require.NoError(t, sc.Shutdown())
	rec = httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp = DetailedHealthResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shutting down", resp.Status)
}
