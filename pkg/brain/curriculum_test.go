package brain

import (
	"strings"
	"testing"

	"github.com/expertbridge/interviewer/pkg/interview"
)

func TestDefaultCurriculumShape(t *testing.T) {
	c := DefaultCurriculum()
	if c.Len() != 8 {
		t.Fatalf("expected 8 slots, got %d", c.Len())
	}
	topics := map[string]int{}
	for _, s := range c {
		topics[s.Topic]++
	}
	if len(topics) != 4 {
		t.Fatalf("expected 4 distinct topics, got %d", len(topics))
	}
	for topic, n := range topics {
		if n != 2 {
			t.Fatalf("topic %q has %d slots, want 2", topic, n)
		}
	}
	// No two consecutive slots repeat the same (topic, role) pair.
	for i := 1; i < len(c); i++ {
		if c[i] == c[i-1] {
			t.Fatalf("slots %d and %d are identical: %+v", i-1, i, c[i])
		}
	}
}

func TestDirectiveForIsPure(t *testing.T) {
	c := DefaultCurriculum()
	for i := 0; i < c.Len(); i++ {
		first := c.DirectiveFor(i)
		if first != c.DirectiveFor(i) {
			t.Fatalf("directive for index %d is not stable", i)
		}
		if !strings.Contains(first, c[i].Topic) {
			t.Fatalf("directive %d does not mention its topic %q: %q", i, c[i].Topic, first)
		}
	}
}

func TestDirectiveForOutOfRange(t *testing.T) {
	c := DefaultCurriculum()
	for _, idx := range []int{-1, c.Len(), c.Len() + 5} {
		got := c.DirectiveFor(idx)
		if !strings.Contains(got, "final") {
			t.Fatalf("index %d should fall back to the final-question directive, got %q", idx, got)
		}
	}
}

func TestPhaseTransitions(t *testing.T) {
	cases := []struct {
		from, to interview.Phase
		ok       bool
	}{
		{interview.PhaseOpening, interview.PhaseQuestions, true},
		{interview.PhaseQuestions, interview.PhaseClosing, true},
		{interview.PhaseClosing, interview.PhaseTerminated, true},
		{interview.PhaseWarning, interview.PhaseQuestions, true},
		{interview.PhaseTerminated, interview.PhaseQuestions, false},
		{interview.PhaseTerminated, interview.PhaseOpening, false},
		{interview.PhaseClosing, interview.PhaseOpening, false},
	}
	for _, tc := range cases {
		got := transitionValid(tc.from, tc.to)
		if got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
