// Package resources exposes calendar data as MCP resources.
//
// Resources are read-only documents that MCP clients fetch by URI:
//
//	calendar://upcoming        the next events on the calendar
//	event://{event_api_id}     a single event with its hosts
package resources
