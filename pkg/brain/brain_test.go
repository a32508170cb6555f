package brain_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/expertbridge/interviewer/pkg/brain"
	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/metrics"
	"github.com/expertbridge/interviewer/pkg/providers/mock"
)

const scoreJSON = `{
	"depth_score": 4,
	"thinking_score": 4,
	"fit_score": 5,
	"overall_score": 80,
	"depth_reasoning": "solid",
	"thinking_reasoning": "structured",
	"fit_reasoning": "clear",
	"red_flags": [],
	"key_strengths": ["specific metrics"],
	"suggested_follow_up": "ask about scale"
}`

func newBrain(t *testing.T, client *mock.CompletionClient, opts brain.Options) *brain.Brain {
	t.Helper()
	opts.Generator = llm.NewGenerator(client, []string{"m1"})
	return brain.New(opts)
}

func TestTwoStrikeTermination(t *testing.T) {
	client := mock.NewCompletionClient()
	obs := metrics.NewMemoryObserver()
	b := newBrain(t, client, brain.Options{Observer: obs})

	res := b.HandleInput(context.Background(), "this is a stupid question", 100*time.Second)
	if !res.WarningIssued {
		t.Fatalf("first strike: expected warning, got %+v", res)
	}
	if res.Terminate {
		t.Fatalf("first strike must not terminate")
	}
	if res.Score != nil {
		t.Fatalf("strike turns must not produce a score")
	}
	if res.Phase != interview.PhaseWarning {
		t.Fatalf("expected WARNING phase, got %s", res.Phase)
	}

	res = b.HandleInput(context.Background(), "you idiot", 150*time.Second)
	if !res.Terminate {
		t.Fatalf("second strike: expected termination")
	}
	if res.Phase != interview.PhaseTerminated {
		t.Fatalf("expected TERMINATED phase, got %s", res.Phase)
	}

	// Nothing resurrects a terminated session, not even a polite answer.
	res = b.HandleInput(context.Background(), "I am sorry, can we continue?", 160*time.Second)
	if !res.Terminate || res.Phase != interview.PhaseTerminated {
		t.Fatalf("terminated session accepted further input: %+v", res)
	}
	if len(client.Calls()) != 0 {
		t.Fatalf("strike handling must not call the generator, got %d calls", len(client.Calls()))
	}
	if got := len(obs.Named(metrics.EventAbuseStrike)); got != 2 {
		t.Fatalf("expected 2 strike events, got %d", got)
	}
}

func TestHardTimeLimit(t *testing.T) {
	client := mock.NewCompletionClient()
	b := newBrain(t, client, brain.Options{})

	res := b.HandleInput(context.Background(), "let me tell you about my project", 900*time.Second)
	if !res.Terminate {
		t.Fatalf("expected termination past the hard limit")
	}
	if !strings.Contains(res.SpokenResponse, "time limit") {
		t.Fatalf("unexpected time-limit response: %q", res.SpokenResponse)
	}
	if res.Score != nil {
		t.Fatalf("time-limit turn must not produce a score")
	}
	if len(client.Calls()) != 0 {
		t.Fatalf("time-limit handling must not call the generator")
	}
}

func TestStandardTurnAdvancesCounter(t *testing.T) {
	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: "Tell me about your recent work."},
		mock.Reply{Text: scoreJSON},
	)
	b := newBrain(t, client, brain.Options{})

	res := b.HandleInput(context.Background(), "I led the data platform rebuild", 30*time.Second)
	if res.Terminate {
		t.Fatalf("standard turn must not terminate")
	}
	if b.QuestionCount() != 1 {
		t.Fatalf("expected question count 1, got %d", b.QuestionCount())
	}
	if res.Phase != interview.PhaseOpening {
		t.Fatalf("first question should keep OPENING, got %s", res.Phase)
	}
	if res.Score == nil || res.Score.OverallScore != 80 {
		t.Fatalf("expected parsed score 80, got %+v", res.Score)
	}
}

func TestCurriculumExhaustionClosesOut(t *testing.T) {
	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: "Walk me through your background."},
		mock.Reply{Text: scoreJSON},
		mock.Reply{Text: "Thank you, that covers everything I wanted to ask."},
		mock.Reply{Text: scoreJSON},
	)
	b := newBrain(t, client, brain.Options{
		Curriculum: brain.Curriculum{{Topic: "background", Role: brain.RoleOverview}},
	})

	res := b.HandleInput(context.Background(), "happy to start", 30*time.Second)
	if res.Terminate {
		t.Fatalf("turn within curriculum must not terminate")
	}
	if res.Phase != interview.PhaseClosing {
		t.Fatalf("last question should move to CLOSING, got %s", res.Phase)
	}

	res = b.HandleInput(context.Background(), "my final answer", 60*time.Second)
	if !res.Terminate {
		t.Fatalf("exhausted curriculum must terminate")
	}
	if res.Score == nil {
		t.Fatalf("the final answer must still be scored")
	}
	if res.Phase != interview.PhaseTerminated {
		t.Fatalf("expected TERMINATED, got %s", res.Phase)
	}
}

func TestGenerationFailureKeepsCounter(t *testing.T) {
	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Err: errors.New("backend down")},
		mock.Reply{Text: scoreJSON},
	)
	b := newBrain(t, client, brain.Options{})

	res := b.HandleInput(context.Background(), "an answer", 30*time.Second)
	if res.Terminate {
		t.Fatalf("generation failure must not terminate the interview")
	}
	if !strings.Contains(res.SpokenResponse, "technical issue") {
		t.Fatalf("expected the apology line, got %q", res.SpokenResponse)
	}
	if res.Diagnostic == "" {
		t.Fatalf("expected a diagnostic for the session log")
	}
	if b.QuestionCount() != 0 {
		t.Fatalf("failed turn must not advance the counter, got %d", b.QuestionCount())
	}
	if res.Score == nil {
		t.Fatalf("the answer is still scored on generation failure")
	}
}

func TestNeutralScoreOnUnparsableAssessment(t *testing.T) {
	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: "Interesting. What happened next?"},
		mock.Reply{Text: "I cannot assess this answer."},
	)
	obs := metrics.NewMemoryObserver()
	b := newBrain(t, client, brain.Options{Observer: obs})

	res := b.HandleInput(context.Background(), "some answer", 30*time.Second)
	if res.Score == nil {
		t.Fatalf("expected neutral default score, got nil")
	}
	want := interview.NeutralScore()
	if res.Score.DepthScore != want.DepthScore || res.Score.OverallScore != want.OverallScore {
		t.Fatalf("neutral default mismatch: %+v", res.Score)
	}
	if len(obs.Named(metrics.EventScoreDefaulted)) != 1 {
		t.Fatalf("expected a score-defaulted event")
	}
}

func TestEarlyCloseOnlyLate(t *testing.T) {
	goodbye := "Thank you so much for your time today. You'll hear back from us soon. Goodbye!"

	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: goodbye},
		mock.Reply{Text: scoreJSON},
	)
	b := newBrain(t, client, brain.Options{})
	res := b.HandleInput(context.Background(), "thanks, that was all from me", 650*time.Second)
	if !res.Terminate {
		t.Fatalf("a goodbye past the concluding mark should close the interview")
	}
	if res.Phase != interview.PhaseTerminated {
		t.Fatalf("expected TERMINATED, got %s", res.Phase)
	}

	// The same reply early in the interview is just a turn.
	client = mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: goodbye},
		mock.Reply{Text: scoreJSON},
	)
	b = newBrain(t, client, brain.Options{})
	res = b.HandleInput(context.Background(), "thanks", 100*time.Second)
	if res.Terminate {
		t.Fatalf("early goodbye must not terminate")
	}
}

func TestSpokenJSONRepair(t *testing.T) {
	client := mock.NewCompletionClient().Script("m1",
		mock.Reply{Text: `{"response_text": "Could you share a concrete example?"}`},
		mock.Reply{Text: scoreJSON},
	)
	b := newBrain(t, client, brain.Options{})

	res := b.HandleInput(context.Background(), "an answer", 30*time.Second)
	if res.SpokenResponse != "Could you share a concrete example?" {
		t.Fatalf("expected repaired plain text, got %q", res.SpokenResponse)
	}
}
