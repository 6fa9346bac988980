// Package dispatch turns an API operation into a typed result.
//
// An Operation is a plain value describing one call: HTTP verb, path,
// query, optional body and whether a response body is expected. Send
// encodes the body, hands the request to a Doer (normally a
// *transport.Transport) and passes the response to Interpret, which is
// the only place a response becomes either a value or an *apierror.Error.
//
// Every failure leaving this package is an *apierror.Error: transport
// failures, non-2xx responses, empty or undecodable bodies and request
// encoding failures. The original cause stays reachable with errors.Is.
package dispatch
