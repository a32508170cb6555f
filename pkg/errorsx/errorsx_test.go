package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonSTTTranscribe)
	if Reason(err) != ReasonSTTTranscribe {
		t.Fatalf("expected reason %s, got %s", ReasonSTTTranscribe, Reason(err))
	}
	if !HasReason(err, ReasonSTTTranscribe) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonLLMExhausted)
	second := Wrap(first, ReasonLLMGenerate)
	if Reason(second) != ReasonLLMExhausted {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ReasonLLMGenerate) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if Reason(nil) != ReasonUnknown {
		t.Fatalf("expected unknown reason for nil error")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
