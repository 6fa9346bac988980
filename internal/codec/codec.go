package codec

import (
	"bytes"
	"encoding/json"
	"io"
)

// Codec holds the JSON settings shared by every request and response.
// The zero value is usable; fields are unexported so a Codec cannot be
// changed after construction.
type Codec struct {
	indent          string
	escapeHTML      bool
	disallowUnknown bool
}

// Option configures a Codec.
type Option func(*Codec)

// WithIndent pretty-prints encoded output using the given indent.
func WithIndent(indent string) Option {
	return func(c *Codec) {
		c.indent = indent
	}
}

// WithEscapeHTML escapes <, > and & in encoded strings.
func WithEscapeHTML() Option {
	return func(c *Codec) {
		c.escapeHTML = true
	}
}

// WithDisallowUnknownFields rejects response fields that have no struct field.
func WithDisallowUnknownFields() Option {
	return func(c *Codec) {
		c.disallowUnknown = true
	}
}

// New returns a Codec configured with opts.
func New(opts ...Option) Codec {
	var c Codec
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Default returns the codec used when none is supplied.
func Default() Codec {
	return New()
}

// Marshal encodes v without a trailing newline.
func (c Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(c.escapeHTML)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode reads one JSON value from r into v. An empty stream returns io.EOF.
func (c Codec) Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if c.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

// Unmarshal decodes data into v.
func (c Codec) Unmarshal(data []byte, v any) error {
	return c.Decode(bytes.NewReader(data), v)
}
