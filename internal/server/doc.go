// Package server provides the MCP server context and the auxiliary HTTP
// endpoints of the eventcal server.
//
// # Key Components
//
// ServerContext holds the API client shared by all MCP tools, together
// with the metrics recorder and audit logger used to instrument them. It
// also records whether write tools are allowed.
//
// HealthChecker serves Kubernetes style probes (/healthz, /readyz and
// /healthz/detailed) for the streamable HTTP transport.
//
// HTTPServer mounts the MCP server's streamable HTTP transport at /mcp,
// next to the health endpoints.
//
// MetricsServer exposes the Prometheus registry of an
// instrumentation.Provider on a dedicated port, isolated from MCP traffic.
package server
