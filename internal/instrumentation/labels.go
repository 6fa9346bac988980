package instrumentation

import "strings"

const labelUnknown = "unknown"

// EndpointLabel is the path of a request target. Query strings carry cursors
// and event ids, so they never reach a label.
//
//	EndpointLabel("/public/v1/event/get?api_id=evt-1")  // "/public/v1/event/get"
func EndpointLabel(target string) string {
	path, _, _ := strings.Cut(target, "?")
	path = strings.TrimRight(path, "/")
	if path == "" {
		return labelUnknown
	}
	return path
}

// GuestDomain is the lower-cased domain of a guest address, the only part of
// it that is logged unless PII logging is on. Malformed addresses give "unknown".
//
//	GuestDomain("Jane@Example.com")  // "example.com"
func GuestDomain(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return labelUnknown
	}
	return strings.ToLower(domain)
}
