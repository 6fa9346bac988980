// Package transport is the HTTP layer of the calendar API client.
//
// A Transport authenticates every request with the configured API key and
// wraps each call in a retry policy:
//
//   - HTTP 429 responses are retried after a fixed 60 second wait.
//   - Connection-level failures are retried after 2^n seconds (2s, 4s, 8s).
//   - Every other status is returned to the caller untouched.
//
// At most three retries are made. When they are exhausted the last outcome
// is returned as-is: the final 429 response, or a *ConnectionError wrapping
// the final network error. Each retry is logged at warn level, counted in
// the api_retries_total metric and recorded as a span event, so throttling
// and network trouble can be told apart.
//
// Transport only moves bytes; decoding and error translation happen in the
// dispatch package.
package transport
