package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidRetries is returned when the retry count is negative.
	// Use 0 to disable retries.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A timeout of zero or less would fail every request
	// immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is not
	// positive. Disable the cache instead of setting a zero TTL.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be positive")
)
