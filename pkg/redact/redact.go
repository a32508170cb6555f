package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

// Transcript text is candidate speech; it may contain contact details that
// must not leak into logs or artifacts.

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
)

// SetEnabled toggles PII redaction process-wide.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Text redacts emails and phone numbers when redaction is enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}
