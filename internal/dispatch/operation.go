package dispatch

import (
	"net/http"
	"net/url"
)

// ResultKind says what a successful response carries.
type ResultKind int

const (
	// ExpectValue requires a JSON body to decode.
	ExpectValue ResultKind = iota

	// ExpectNone discards whatever the server returns on success.
	ExpectNone
)

func (k ResultKind) String() string {
	if k == ExpectNone {
		return "none"
	}
	return "value"
}

// Operation describes a single API call. Name identifies it in logs,
// metrics and spans; Body, when non-nil, is JSON-encoded with the
// dispatcher's codec.
type Operation struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any
	Expect ResultKind
}

// Get builds a GET operation expecting a value.
func Get(name, path string, query url.Values) Operation {
	return Operation{Name: name, Method: http.MethodGet, Path: path, Query: query, Expect: ExpectValue}
}

// Post builds a POST operation expecting a value.
func Post(name, path string, body any) Operation {
	return Operation{Name: name, Method: http.MethodPost, Path: path, Body: body, Expect: ExpectValue}
}

// PostNoContent builds a POST operation whose response body is ignored.
func PostNoContent(name, path string, body any) Operation {
	return Operation{Name: name, Method: http.MethodPost, Path: path, Body: body, Expect: ExpectNone}
}

// Put builds a PUT operation whose response body is ignored.
func Put(name, path string, body any) Operation {
	return Operation{Name: name, Method: http.MethodPut, Path: path, Body: body, Expect: ExpectNone}
}

// Delete builds a DELETE operation whose response body is ignored.
func Delete(name, path string, query url.Values) Operation {
	return Operation{Name: name, Method: http.MethodDelete, Path: path, Query: query, Expect: ExpectNone}
}

// Target returns the path with its encoded query string.
func (op Operation) Target() string {
	if len(op.Query) == 0 {
		return op.Path
	}
	return op.Path + "?" + op.Query.Encode()
}

// WithQuery returns a copy of op using q as its query.
func (op Operation) WithQuery(q url.Values) Operation {
	op.Query = q
	return op
}

// AddParam adds key=value to q unless value is empty.
func AddParam(q url.Values, key, value string) {
	if value == "" {
		return
	}
	q.Add(key, value)
}
