package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// MaskValue replaces sensitive values in log output.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"api_key":             true,
	"apikey":              true,
	"session":             true,
	"session_id":          true,
	"sid":                 true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
// The bare word "key" is left out because of names like "keyword".
var sensitiveKeywords = []string{"password", "passwd", "secret", "token", "auth", "credential"}

// sensitivePatterns match values that look like credentials regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// SecureHandler wraps an slog.Handler and masks sensitive attribute values
// before the record reaches the wrapped handler.
type SecureHandler struct {
	handler slog.Handler
	secrets []string
}

// Option configures a SecureHandler.
type Option func(*SecureHandler)

// WithSecrets registers literal values that are masked wherever they appear
// inside a string attribute. Empty values are ignored.
func WithSecrets(values ...string) Option {
	return func(h *SecureHandler) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" && !slices.Contains(h.secrets, v) {
				h.secrets = append(h.secrets, v)
			}
		}
	}
}

// NewSecureHandler returns a SecureHandler wrapping handler.
// A nil handler falls back to slog.Default().Handler().
func NewSecureHandler(handler slog.Handler, opts ...Option) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the wrapped handler handles level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, h.maskSecrets(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with sanitized attrs pre-attached.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized), secrets: h.secrets}
}

// WithGroup returns a handler that nests attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), secrets: h.secrets}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		sanitized := make([]slog.Attr, len(group))
		for i, ga := range group {
			sanitized[i] = h.sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	var s string
	switch a.Value.Kind() {
	case slog.KindString:
		s = a.Value.String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		s = err.Error()
	default:
		return a
	}

	if isSensitiveValue(s) {
		return slog.String(a.Key, MaskValue)
	}
	if masked := h.maskSecrets(maskURLQuery(s)); masked != s {
		return slog.String(a.Key, masked)
	}
	return a
}

func (h *SecureHandler) maskSecrets(s string) string {
	for _, secret := range h.secrets {
		s = strings.ReplaceAll(s, secret, MaskValue)
	}
	return s
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// maskURLQuery masks sensitive query parameters of an absolute URL.
// Values that are not URLs are returned unchanged.
func maskURLQuery(value string) string {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.RawQuery == "" {
		return value
	}

	query := u.Query()
	changed := false
	for name := range query {
		if isSensitiveKey(name) {
			query.Set(name, MaskValue)
			changed = true
		}
	}
	if !changed {
		return value
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// NewLogger returns a text logger on w wrapped in a SecureHandler.
// The level is Debug when verbose is set and Warn otherwise.
func NewLogger(w io.Writer, verbose bool, opts ...Option) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), opts...))
}

// NewJSONLogger is NewLogger with JSON output, for log collectors.
func NewJSONLogger(w io.Writer, verbose bool, opts ...Option) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), opts...))
}
