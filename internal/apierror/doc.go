// Package apierror defines the single error type returned by the SDK.
//
// Every failure that crosses the request pipeline (network errors after
// retries are exhausted, non-2xx responses, and response bodies that cannot
// be decoded) is reported as an *Error carrying a message, the optional
// structured payload sent by the API, and an HTTP status code. Callers
// inspect it with errors.As or the Is* helpers:
//
//	if apierror.IsNotFound(err) {
//	    // the event does not exist
//	}
package apierror
