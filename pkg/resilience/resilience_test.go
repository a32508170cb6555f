package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	p := NewRetryPolicy(3, time.Millisecond)
	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicyExhausts(t *testing.T) {
	p := NewRetryPolicy(2, time.Millisecond)
	calls := 0
	err := p.Do(func() error {
		calls++
		return errors.New("still down")
	})
	if err == nil {
		t.Fatalf("expected the final error")
	}
	if calls != 3 {
		t.Fatalf("expected initial call plus 2 retries, got %d", calls)
	}
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(2, 20*time.Millisecond)
	if !cb.Allow() {
		t.Fatalf("breaker should start closed")
	}
	cb.OnFailure()
	if !cb.Allow() {
		t.Fatalf("one failure below threshold must not open the breaker")
	}
	cb.OnFailure()
	if cb.Allow() {
		t.Fatalf("breaker should be open after reaching the threshold")
	}
	time.Sleep(25 * time.Millisecond)
	if !cb.Allow() {
		t.Fatalf("breaker should close after the cooldown")
	}
	cb.OnSuccess()
	cb.OnFailure()
	if !cb.Allow() {
		t.Fatalf("success must reset the failure count")
	}
}
