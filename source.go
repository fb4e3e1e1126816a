package spatula

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Source describes how to obtain a resource, separately from what to do
// with it. It is a tagged variant with two cases: Literal (a bare
// location string) and URL (a structured request description). A page
// normalizes its source to *URL before fetching, so the fetch path only
// ever sees the structured case.
type Source interface {
	// Normalize returns the structured request this source describes.
	Normalize() *URL
}

// Fetcher is the injected client contract. Given a normalized request
// description it returns a Response, or a *FetchError for any transport
// or protocol failure.
//
// Retry, timeout, and caching policy belong to the Fetcher; the page
// lifecycle only observes the Response (including its FromCache flag).
type Fetcher interface {
	Do(ctx context.Context, req *URL) (*Response, error)
}

// Literal is the bare-string source case: a GET request to the given
// location with no further options.
type Literal string

// Normalize converts the literal location into a structured GET request.
func (l Literal) Normalize() *URL {
	return &URL{URL: string(l), Method: http.MethodGet}
}

// String returns the literal location.
func (l Literal) String() string { return string(l) }

// URL is the structured source case: a full request description.
// The zero Method means GET.
type URL struct {
	// URL is the request location.
	URL string

	// Method is the HTTP method. Empty means GET.
	Method string

	// Headers are additional request headers. A Source may carry
	// credentials here; the logging layer masks them.
	Headers map[string]string

	// Body is the request body, if any.
	Body []byte

	// SkipVerify disables TLS certificate verification for this
	// request only.
	SkipVerify bool

	// Retries overrides the client's retry count for this request.
	// Zero means use the client default.
	Retries int
}

// Normalize fills defaults and returns the receiver. URL is already the
// structured case, so no conversion happens.
func (u *URL) Normalize() *URL {
	if u.Method == "" {
		u.Method = http.MethodGet
	}
	return u
}

// String renders the request for logs and diagnostics.
func (u *URL) String() string {
	method := u.Method
	if method == "" {
		method = http.MethodGet
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", method, u.URL)
	if u.SkipVerify {
		b.WriteString(" (insecure)")
	}
	return b.String()
}

// GetResponse performs the request through the injected client.
func (u *URL) GetResponse(ctx context.Context, client Fetcher) (*Response, error) {
	return client.Do(ctx, u.Normalize())
}
