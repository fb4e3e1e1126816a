// Package log provides logging helpers built on the standard slog
// package, with automatic masking of credential-bearing attributes.
//
// Sources may carry authentication material in their request headers
// (Authorization, Cookie, API keys), and the fetch layer logs request
// metadata. The MaskingHandler makes sure such values never reach log
// output, even in verbose mode.
package log
