// Package calendar_tools provides MCP (Model Context Protocol) tools for calendar operations.
//
// The tools expose the calendar endpoints of the event API: listing the
// calendar's events within an optional time window and importing people into
// the calendar. Import is a write operation and is only registered when the
// server runs without read-only mode.
package calendar_tools
