// Package event_tools provides MCP tools for a single event: reading the
// event and its guests, and in read-write mode creating and updating events,
// managing guests and hosts, and maintaining coupons.
package event_tools
