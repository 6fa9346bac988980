// Package config loads settings for the eventcal CLI and MCP server.
//
// Values come from, in increasing precedence: built-in defaults, an
// optional YAML file (with ${VAR} expansion) and EVENTCAL_* environment
// variables. Command-line flags are applied on top by the cmd package.
package config
