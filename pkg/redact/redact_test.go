package redact

import (
	"strings"
	"testing"
)

func TestTextRedactsWhenEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	in := "reach me at jane.doe@example.com or +1 555-123-4567 thanks"
	out := Text(in)
	if !strings.Contains(out, "[REDACTED_EMAIL]") {
		t.Fatalf("expected email redacted, got %q", out)
	}
	if !strings.Contains(out, "[REDACTED_PHONE]") {
		t.Fatalf("expected phone redacted, got %q", out)
	}
}

func TestTextPassthroughWhenDisabled(t *testing.T) {
	SetEnabled(false)
	in := "email jane.doe@example.com"
	if out := Text(in); out != in {
		t.Fatalf("expected passthrough, got %q", out)
	}
}
