package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	healthOK           = "ok"
	healthNotReady     = "not ready"
	healthShuttingDown = "shutting down"

	// checkTimeout bounds a single readiness check.
	checkTimeout = 2 * time.Second
)

var (
	errShuttingDown  = errors.New(healthShuttingDown)
	errClientMissing = errors.New("no API client configured")
)

// Check reports whether one dependency of the server is usable.
type Check func(ctx context.Context) error

// HealthChecker serves liveness and readiness probes for the MCP server.
// Readiness fails while the checker is marked not ready or any check fails.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time

	mu     sync.RWMutex
	checks map[string]Check
}

// NewHealthChecker returns a ready checker. With a ServerContext it also
// checks the API client and the shutdown state.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		sc:      sc,
		started: time.Now(),
		checks:  make(map[string]Check),
	}
	h.ready.Store(true)

	if sc != nil {
		h.AddCheck("api_client", func(context.Context) error {
			if sc.Client() == nil || sc.Client().BaseURL() == "" {
				return errClientMissing
			}
			return nil
		})
		h.AddCheck("shutdown", func(context.Context) error {
			if sc.IsShutdown() {
				return errShuttingDown
			}
			return nil
		})
	}
	return h
}

// AddCheck registers or replaces a named readiness check.
func (h *HealthChecker) AddCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetReady marks the server ready or not ready.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the ready flag. It does not run the checks.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	HealthResponse
	Uptime   string `json:"uptime"`
	APIBase  string `json:"api_base_url,omitempty"`
	ReadOnly bool   `json:"read_only"`
}

// evaluate runs every check and returns the results keyed by name.
func (h *HealthChecker) evaluate(ctx context.Context) (map[string]string, bool) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]Check, len(names))
	for i, name := range names {
		checks[i] = h.checks[name]
	}
	h.mu.RUnlock()

	results := make(map[string]string, len(names)+1)
	healthy := true

	if h.ready.Load() {
		results["ready"] = healthOK
	} else {
		results["ready"] = healthNotReady
		healthy = false
	}

	for i, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := checks[i](checkCtx)
		cancel()
		if err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = healthOK
	}
	return results, healthy
}

// LivenessHandler serves /healthz. It only reports that the process is up.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, healthy := h.evaluate(r.Context())
		resp := HealthResponse{Status: healthOK, Checks: checks}
		status := http.StatusOK
		if !healthy {
			resp.Status = healthNotReady
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, resp)
	})
}

// DetailedHealthHandler serves /healthz/detailed with the server's mode and API target.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, healthy := h.evaluate(r.Context())
		resp := DetailedHealthResponse{
			HealthResponse: HealthResponse{Status: healthOK, Checks: checks},
			Uptime:         time.Since(h.started).Truncate(time.Second).String(),
		}
		if h.sc != nil {
			resp.ReadOnly = h.sc.ReadOnly()
			if client := h.sc.Client(); client != nil {
				resp.APIBase = client.BaseURL()
			}
		}

		status := http.StatusOK
		if !healthy {
			resp.Status = healthNotReady
			if h.sc != nil && h.sc.IsShutdown() {
				resp.Status = healthShuttingDown
			}
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, resp)
	})
}

// RegisterHealthEndpoints mounts the probes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
