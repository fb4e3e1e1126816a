package spatula

import (
	"errors"
	"fmt"
)

// Error taxonomy for the page lifecycle.
//
// Design decision: We use typed errors rather than sentinels for most of
// these because callers need the attached context (page name, URL, status
// code) for diagnostics, while errors.As still allows programmatic
// handling of each kind.

// MissingSourceError is returned by Prepare when a page has no source and
// no source-derivation hook. This is a configuration error: the page
// definition is incomplete and cannot be fixed at runtime.
type MissingSourceError struct {
	// Page is the name of the page that could not resolve a source.
	Page string
}

// Error implements the error interface.
func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("page %q has no source and no source-derivation hook", e.Page)
}

// HandledError wraps a transport failure whose error hook ran without
// raising a replacement error. The original failure is preserved as the
// cause so callers can still inspect it via errors.As.
type HandledError struct {
	// Err is the original transport failure.
	Err error
}

// Error implements the error interface.
func (e *HandledError) Error() string {
	return fmt.Sprintf("handled fetch failure: %v", e.Err)
}

// Unwrap returns the original transport failure.
func (e *HandledError) Unwrap() error { return e.Err }

// FetchError is the uniform transport-failure kind. Every failure raised
// by a Fetcher, whether a connection error or an unacceptable HTTP status,
// surfaces as a FetchError so the page lifecycle's error dispatch stays
// transport-agnostic.
type FetchError struct {
	// URL is the request location that failed.
	URL string

	// StatusCode is the HTTP status when a response was received,
	// or zero when the failure happened before any response.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// SkipItemError is the recoverable per-item signal. A per-item hook
// returns one (via Skip) to drop the current candidate; the streaming
// loop logs it at debug level and continues with the next candidate.
// Every other error aborts extraction for the whole page.
type SkipItemError struct {
	// Reason is an optional diagnostic message.
	Reason string
}

// Error implements the error interface.
func (e *SkipItemError) Error() string {
	if e.Reason == "" {
		return "skip item"
	}
	return "skip item: " + e.Reason
}

// Skip returns a SkipItemError with the given diagnostic reason.
// It is intended to be returned from a per-item hook:
//
//	if row.Name == "" {
//		return nil, spatula.Skip("empty name")
//	}
func Skip(reason string) error {
	return &SkipItemError{Reason: reason}
}

// asSkip extracts the skip signal from an error, if present.
func asSkip(err error) (*SkipItemError, bool) {
	var s *SkipItemError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// ContractError indicates an incomplete page definition: a hook or
// capability that the requested operation needs was never provided.
// This is a design-time defect in the page definition, not a runtime
// condition to retry.
type ContractError struct {
	// Page is the name of the incomplete page, when known.
	Page string

	// Missing describes what the definition must provide.
	Missing string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Page == "" {
		return "incomplete page definition: must provide " + e.Missing
	}
	return fmt.Sprintf("incomplete page definition %q: must provide %s", e.Page, e.Missing)
}

// ExtractorEnvError indicates that an external extraction tool could not
// be invoked or produced no output. This is fatal: the environment lacks
// a required executable, and retrying cannot help.
type ExtractorEnvError struct {
	// Tool is the executable that failed.
	Tool string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExtractorEnvError) Error() string {
	return fmt.Sprintf("error running %s, missing executable? [%v]", e.Tool, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractorEnvError) Unwrap() error { return e.Err }
