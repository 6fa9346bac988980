// Package common provides shared utilities for MCP tool implementations:
// argument parsing, result formatting and the instrumentation wrapper
// applied to every tool handler.
package common
