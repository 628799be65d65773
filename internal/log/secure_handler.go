package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
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
	"private_key":   true,
	"secret_key":    true,

	// Session
	"session":    true,
	"session_id": true,
	"sessionid":  true,
	"sid":        true,
	"jsessionid": true,

	// Credentials
	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// sensitiveKeywords are matched as substrings of attribute keys and
// query parameter names. The bare "key" is left out: "monkey", "keyboard".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "session", "signature",
}

// sensitivePatterns indicate sensitive values regardless of the key name.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// AWS access keys
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),

	// Private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// embeddedUserinfo finds "scheme://user:password@" inside free text such as
// error messages from net/http.
var embeddedUserinfo = regexp.MustCompile(`(\b[a-zA-Z][a-zA-Z0-9+.-]*://[^/\s:@]+):[^/\s@]+@`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler to sanitize sensitive information.
// It works with any underlying handler (text, JSON, or a test recorder).
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes sanitized and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		if looksLikeURL(s) {
			return slog.String(a.Key, SanitizeURL(s))
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, SanitizeText(err.Error()))
		}
	}

	return a
}

func isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	return sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower)
}

func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

func looksLikeURL(s string) bool {
	return strings.Contains(s, "://") && !strings.ContainsAny(s, " \t\n")
}

// SanitizeURL masks the userinfo password and the values of sensitive query
// parameters of raw. The rest of the URL is kept so log lines stay useful.
// Strings that do not parse as URLs are returned as SanitizeText would.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return SanitizeText(raw)
	}

	changed := false
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
			changed = true
		}
	}

	if u.RawQuery != "" {
		query, qerr := url.ParseQuery(u.RawQuery)
		if qerr == nil {
			for name, values := range query {
				if !isSensitiveKey(name) {
					continue
				}
				for i := range values {
					values[i] = MaskValue
				}
				changed = true
			}
			if changed {
				u.RawQuery = query.Encode()
			}
		}
	}

	if !changed {
		return raw
	}
	// url.URL.String escapes the mask; readable output is preferred.
	s := u.String()
	return strings.NewReplacer(url.QueryEscape(MaskValue), MaskValue, url.PathEscape(MaskValue), MaskValue).Replace(s)
}

// SanitizeText masks URL passwords embedded in free text.
func SanitizeText(s string) string {
	return embeddedUserinfo.ReplaceAllString(s, "${1}:"+MaskValue+"@")
}

// Level maps the CLI verbosity flags to a log level. Info is the default
// so that crawl progress is visible.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewSecureLogger creates a text slog.Logger that sanitizes all output.
func NewSecureLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewSecureJSONLogger creates a JSON slog.Logger that sanitizes all output.
// Useful for structured log aggregation.
func NewSecureJSONLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}
