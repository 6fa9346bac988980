// Package model holds the entities shared by the calendar and event APIs.
//
// Field names follow the wire format (snake_case json tags). Timestamps
// use codec.Time so they decode from any ISO-8601 form and encode as UTC
// with millisecond precision. Fields the API types loosely are kept as
// any.
package model
