package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/metrics"
	"github.com/expertbridge/interviewer/pkg/orchestrator"
	"github.com/expertbridge/interviewer/pkg/providers/mock"
)

const scoreJSON = `{"depth_score":4,"thinking_score":4,"fit_score":4,"overall_score":80}`

// fakeClock advances interview time under test control.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	orch    *orchestrator.Orchestrator
	stt     *mock.Transcriber
	tts     *mock.Synthesizer
	client  *mock.CompletionClient
	obs     *metrics.MemoryObserver
	clock   *fakeClock
	opening string
}

func newFixture(t *testing.T, transcriber *mock.Transcriber) *fixture {
	t.Helper()
	client := mock.NewCompletionClient()
	synth := mock.NewSynthesizer()
	obs := metrics.NewMemoryObserver()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}

	orch := orchestrator.New(orchestrator.Options{
		Listener:  transcriber,
		Speaker:   synth,
		Generator: llm.NewGenerator(client, []string{"m1"}),
		Observer:  obs,
		Now:       clock.Now,
	})
	opening := orch.StartInterview(interview.CandidateProfile{Name: "Dana"}, "", nil)
	return &fixture{orch: orch, stt: transcriber, tts: synth, client: client, obs: obs, clock: clock, opening: opening}
}

func TestRunTurnBeforeStart(t *testing.T) {
	orch := orchestrator.New(orchestrator.Options{
		Listener:  mock.NewTranscriber("hi"),
		Speaker:   mock.NewSynthesizer(),
		Generator: llm.NewGenerator(mock.NewCompletionClient(), []string{"m1"}),
	})
	if _, err := orch.RunTurn(context.Background(), []byte("audio"), "audio/wav", orchestrator.TurnOptions{}); err == nil {
		t.Fatalf("expected an error before StartInterview")
	}
}

func TestOpeningLineMentionsCandidate(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("hello"))
	if !strings.Contains(f.opening, "Dana") {
		t.Fatalf("opening line should address the candidate: %q", f.opening)
	}
	if f.orch.Session().Phase != interview.PhaseActive {
		t.Fatalf("session should be ACTIVE after start, got %s", f.orch.Session().Phase)
	}
}

func TestFullTurn(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("I built the billing system"))
	f.client.Script("m1",
		mock.Reply{Text: "What was the hardest part?"},
		mock.Reply{Text: scoreJSON},
	)

	result, err := f.orch.RunTurn(context.Background(), []byte("pretend audio bytes"), "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CandidateText != "I built the billing system" {
		t.Fatalf("unexpected candidate text: %q", result.CandidateText)
	}
	if result.SpokenResponse != "What was the hardest part?" {
		t.Fatalf("unexpected spoken response: %q", result.SpokenResponse)
	}
	if string(result.Audio) != result.SpokenResponse {
		t.Fatalf("audio should carry the synthesized reply")
	}

	sess := f.orch.Session()
	if len(sess.Transcript) != 2 {
		t.Fatalf("expected candidate+interviewer transcript entries, got %d", len(sess.Transcript))
	}
	if sess.Transcript[0].Role != interview.RoleCandidate || sess.Transcript[1].Role != interview.RoleInterviewer {
		t.Fatalf("unexpected transcript roles: %+v", sess.Transcript)
	}
	if len(sess.Scores) != 1 || sess.FinalScore != 80 {
		t.Fatalf("expected one score of 80, got %d over %d records", sess.FinalScore, len(sess.Scores))
	}
	if len(f.obs.Named(metrics.EventTurnCompleted)) != 1 {
		t.Fatalf("expected a turn-completed event")
	}
}

func TestEmptyAudioShortCircuits(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber(""))

	result, err := f.orch.RunTurn(context.Background(), []byte{1, 2, 3}, "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.SpokenResponse, "didn't catch") {
		t.Fatalf("expected the repeat prompt, got %q", result.SpokenResponse)
	}
	if len(f.orch.Session().Transcript) != 0 {
		t.Fatalf("empty turns must not touch the transcript")
	}
	if len(f.client.Calls()) != 0 {
		t.Fatalf("empty turns must not reach the generator")
	}
	if len(f.obs.Named(metrics.EventTurnEmptyAudio)) != 1 {
		t.Fatalf("expected an empty-audio event")
	}
}

func TestTranscriptionErrorShortCircuits(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber().FailWith(errors.New("socket closed")))

	result, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("transport failures must be recovered, got %v", err)
	}
	if !strings.Contains(result.SpokenResponse, "trouble hearing") {
		t.Fatalf("expected the retry prompt, got %q", result.SpokenResponse)
	}
	if len(f.obs.Named(metrics.EventTurnSTTError)) != 1 {
		t.Fatalf("expected an stt-error event")
	}
}

func TestSynthesisFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("an answer"))
	f.tts.FailWith(errors.New("voice service down"))
	f.client.Script("m1",
		mock.Reply{Text: "Next question."},
		mock.Reply{Text: scoreJSON},
	)

	result, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Audio != nil {
		t.Fatalf("audio should be nil when synthesis fails")
	}
	if result.SpokenResponse != "Next question." {
		t.Fatalf("text reply must survive synthesis failure, got %q", result.SpokenResponse)
	}
	if len(f.orch.Session().Transcript) != 2 {
		t.Fatalf("the turn still counts when synthesis fails")
	}
	if len(f.obs.Named(metrics.EventTurnTTSError)) != 1 {
		t.Fatalf("expected a tts-error event")
	}
}

func TestTerminationPropagates(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("you are an idiot", "still an idiot"))

	if _, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Terminate {
		t.Fatalf("second strike should terminate the session")
	}
	if f.orch.Session().Phase != interview.PhaseTerminated {
		t.Fatalf("session phase should be TERMINATED, got %s", f.orch.Session().Phase)
	}
}

func TestHardLimitThroughClock(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("long answer"))
	f.clock.Advance(900 * time.Second)

	result, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Terminate {
		t.Fatalf("expected termination past the hard limit")
	}
	if !strings.Contains(result.SpokenResponse, "time limit") {
		t.Fatalf("unexpected response: %q", result.SpokenResponse)
	}
}

func TestFinalReportAggregates(t *testing.T) {
	f := newFixture(t, mock.NewTranscriber("answer one", "answer two"))
	f.client.Script("m1",
		mock.Reply{Text: "Question two?"},
		mock.Reply{Text: `{"overall_score":70}`},
		mock.Reply{Text: "Question three?"},
		mock.Reply{Text: `{"overall_score":75}`},
	)

	for i := 0; i < 2; i++ {
		if _, err := f.orch.RunTurn(context.Background(), []byte{1}, "audio/wav", orchestrator.TurnOptions{}); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}

	report := f.orch.FinalReport()
	if report.AverageScore != 72 {
		t.Fatalf("mean of 70 and 75 should truncate to 72, got %d", report.AverageScore)
	}
	if len(report.Scores) != 2 || len(report.Transcript) != 4 {
		t.Fatalf("unexpected report shape: %d scores, %d turns", len(report.Scores), len(report.Transcript))
	}
}
