package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// sensitiveKeys contains attribute keys that are always masked. These
// are the keys a page source or fetch client is likely to log while
// carrying credentials.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"refresh_token": true,

	// Session
	"session":    true,
	"session_id": true,
	"sessionid":  true,
}

// MaskValue is the string used to replace masked values.
const MaskValue = "***REDACTED***"

// MaskingHandler wraps an slog.Handler and masks attribute values whose
// keys look like credentials before passing records on.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Page and client loggers inherit the masking automatically
type MaskingHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewMaskingHandler creates a MaskingHandler wrapping the given handler.
// If handler is nil, slog.Default's handler is used.
func NewMaskingHandler(handler slog.Handler) *MaskingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added,
// masked first.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// containsSensitiveKeyword checks whether the key embeds a credential
// keyword. The bare "key" keyword is intentionally excluded because it
// causes false positives ("primary_key", "cache_key").
func containsSensitiveKeyword(key string) bool {
	keywords := []string{"password", "passwd", "secret", "token", "auth", "credential"}
	for _, keyword := range keywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// NewLogger creates a slog.Logger with masking. Verbose selects Debug
// level; otherwise Warn, so informational fetch logging stays quiet by
// default in the harness.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewMaskingHandler(textHandler))
}
