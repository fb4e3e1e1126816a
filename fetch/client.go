// Package fetch provides the bundled Fetcher implementation: an HTTP
// client with retries, a configurable user agent, a per-source TLS
// verification toggle, and an optional sqlite-backed response cache.
//
// The page lifecycle in the root package only depends on the
// spatula.Fetcher contract; this package is one concrete collaborator,
// and callers are free to inject their own.
package fetch

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/morden35/spatula"
)

// Default client settings.
const (
	// DefaultUserAgent identifies the framework in request logs.
	DefaultUserAgent = "spatula (https://github.com/morden35/spatula)"

	// DefaultRetries is the number of retry attempts after a failed
	// request.
	DefaultRetries = 2

	// DefaultRetryWait is the base delay between retry attempts. The
	// actual wait grows linearly with the attempt number.
	DefaultRetryWait = 2 * time.Second

	// DefaultTimeout bounds each individual request.
	DefaultTimeout = 30 * time.Second
)

// Client is a spatula.Fetcher over resty. It maps every transport and
// protocol failure to *spatula.FetchError so the page lifecycle's error
// dispatch stays uniform.
//
// Retries are handled here rather than through resty's client-level
// retry so a Source's per-request Retries override can take effect
// without mutating shared client state.
type Client struct {
	resty    *resty.Client
	insecure *resty.Client

	userAgent string
	retries   int
	retryWait time.Duration
	timeout   time.Duration
	cache     *Cache
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetries sets the default number of retry attempts after a failed
// request. A Source may override this per request.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithRetryWait sets the base delay between retry attempts.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// WithTimeout bounds each individual request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache attaches a response cache. Cached GET responses are served
// with FromCache set and no network call.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets a custom logger. If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		retryWait: DefaultRetryWait,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.resty = resty.New().
		SetTimeout(c.timeout).
		SetHeader("User-Agent", c.userAgent)
	c.insecure = resty.New().
		SetTimeout(c.timeout).
		SetHeader("User-Agent", c.userAgent).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // Per-source opt-in, mirrors the Source's verify option
	return c
}

// Do executes the request described by req. Cache hits short-circuit
// the network entirely; misses go through the retry loop and, on
// success, populate the cache.
func (c *Client) Do(ctx context.Context, req *spatula.URL) (*spatula.Response, error) {
	req = req.Normalize()

	if c.cache != nil && req.Method == http.MethodGet {
		cached, ok, err := c.cache.Get(ctx, req)
		if err != nil {
			c.logger.Warn("response cache lookup failed", "url", req.URL, "err", err)
		} else if ok {
			cached.FromCache = true
			return cached, nil
		}
	}

	resp, err := c.doWithRetries(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && req.Method == http.MethodGet {
		if err := c.cache.Put(ctx, req, resp); err != nil {
			c.logger.Warn("response cache store failed", "url", req.URL, "err", err)
		}
	}
	return resp, nil
}

// doWithRetries runs the request up to 1+retries times. Connection
// errors and 5xx statuses are retried with a linearly growing wait;
// 4xx statuses fail immediately since retrying cannot change them.
func (c *Client) doWithRetries(ctx context.Context, req *spatula.URL) (*spatula.Response, error) {
	retries := c.retries
	if req.Retries > 0 {
		retries = req.Retries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"url", req.URL,
				"attempt", attempt,
				"err", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, &spatula.FetchError{URL: req.URL, Err: ctx.Err()}
			case <-time.After(c.retryWait * time.Duration(attempt)):
			}
		}

		resp, retryable, err := c.doOnce(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

// doOnce executes a single attempt. The second return value reports
// whether the failure is worth retrying.
func (c *Client) doOnce(ctx context.Context, req *spatula.URL) (*spatula.Response, bool, error) {
	client := c.resty
	if req.SkipVerify {
		client = c.insecure
	}

	r := client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, true, &spatula.FetchError{URL: req.URL, Err: err}
	}

	status := resp.StatusCode()
	if status >= 400 {
		ferr := &spatula.FetchError{URL: req.URL, StatusCode: status}
		return nil, status >= 500, ferr
	}

	return &spatula.Response{
		StatusCode:  status,
		URL:         finalURL(resp, req.URL),
		Header:      resp.Header(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, false, nil
}

// finalURL returns the request URL after redirects, falling back to the
// original location when the raw response is unavailable.
func finalURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}
