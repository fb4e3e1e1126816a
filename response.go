package spatula

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// Response is a fetched resource. It stores the raw body bytes and
// decodes text and JSON lazily on demand.
//
// Design decision: We keep the raw bytes and decode on access rather
// than decoding eagerly because most pages only need one view of the
// body (tree, JSON, or text), and binary formats (PDF, spreadsheets)
// must not be run through a charset decoder at all.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// URL is the resolved request location after redirects. List pages
	// use it downstream for link normalization.
	URL string

	// Header contains the response headers.
	Header http.Header

	// ContentType is the MIME type from the Content-Type header,
	// kept separately for convenience and charset detection.
	ContentType string

	// Body is the raw response body.
	Body []byte

	// FromCache reports whether the data came from the client's cache
	// rather than the network.
	FromCache bool
}

// OK reports whether the status code indicates a valid response.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body decoded to UTF-8, best effort. The charset is
// detected from the Content-Type header and the body itself; if
// detection or decoding fails, the raw bytes are returned as-is.
func (r *Response) Text() string {
	reader, err := charset.NewReader(bytes.NewReader(r.Body), r.ContentType)
	if err != nil {
		return string(r.Body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(r.Body)
	}
	return string(decoded)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// DecodeJSON decodes the body into an untyped value.
func (r *Response) DecodeJSON() (any, error) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	return v, nil
}
