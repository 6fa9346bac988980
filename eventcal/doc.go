// Package eventcal is a client for the calendar and event API.
//
// A Client is built once from Options and is safe for concurrent use:
//
//	client, err := eventcal.New(eventcal.Options{APIKey: os.Getenv("EVENTCAL_API_KEY")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Events().GetEvent(ctx, "evt-123")
//
// List operations return an iter.Seq2 that fetches pages lazily. Every
// failed call returns an *Error carrying the HTTP status and, when the
// server sent one, its error payload.
package eventcal
