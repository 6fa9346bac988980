// Package cmd implements the command-line interface for eventcal.
//
// This package provides the following commands:
//   - calendar: List calendar events and import people
//   - events: Read and manage events, guests, hosts and coupons
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Configuration is loaded once by the root command from a .env file, an
// optional YAML config file and EVENTCAL_* environment variables.
package cmd
