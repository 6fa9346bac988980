// Package logging holds the slog conventions of eventcal: attribute keys and
// helpers, redaction of guest addresses and secrets, and handler construction.
//
// Build the process logger once:
//
//	handler, err := logging.NewHandler(os.Stderr, "info", logging.FormatText)
//	slog.SetDefault(slog.New(handler))
//
// Request targets pass through RedactTarget before they are logged, so a
// guest lookup by email shows up as
//
//	path=/public/v1/event/get-guest?email=guest%3A3c1e...&event_api_id=evt-1
//
// API keys are only ever logged through SanitizeToken.
package logging
