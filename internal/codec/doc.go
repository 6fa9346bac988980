// Package codec converts between the API's wire representation and Go values.
//
// The API exchanges timestamps as ISO-8601 strings and durations as ISO-8601
// duration strings (PnDTnHnMnS). Time and Duration wrap the native types and
// implement json.Marshaler/json.Unmarshaler so model structs can use them
// directly. Timestamps are always normalised to UTC on decode and always
// emitted as UTC with millisecond precision:
//
//	2024-06-10T17:29:03.000Z
//
// Codec bundles the JSON encoder/decoder settings. It is an immutable value
// that is created once and handed to every component that serialises
// payloads; there is no package-level configuration.
//
//	c := codec.New(codec.WithDisallowUnknownFields())
//	body, err := c.Marshal(req)
package codec
