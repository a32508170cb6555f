// Package orchestrator runs the per-turn interview pipeline: speech-to-text,
// dialogue control, scoring bookkeeping and text-to-speech, over a single
// in-memory session.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
	"github.com/expertbridge/interviewer/pkg/adapters/tts"
	"github.com/expertbridge/interviewer/pkg/brain"
	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/metrics"
	"github.com/expertbridge/interviewer/pkg/redact"
	"github.com/expertbridge/interviewer/pkg/strategy"
)

// Fixed recovery lines. Transport failures are never surfaced as errors to
// the candidate; the interview keeps moving with an apology instead.
const (
	msgDidNotCatch    = "I didn't catch that. Could you repeat?"
	msgTroubleHearing = "I'm having trouble hearing you. Please try again."
	msgTechnicalIssue = "I'm having a technical issue. Please give me a moment and repeat that."
)

// DefaultVoice is used when no voice is configured for a turn.
const DefaultVoice = "aura-asteria-en"

// Options wires an orchestrator. Listener, Speaker and Generator are
// required.
type Options struct {
	Listener   stt.Transcriber
	Speaker    tts.Synthesizer
	Generator  *llm.Generator
	Classifier brain.Classifier
	Curriculum brain.Curriculum
	Limits     brain.Limits
	Voice      string
	Observer   metrics.Observer
	Logger     *slog.Logger
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// TurnOptions carries per-turn overrides from the caller.
type TurnOptions struct {
	Voice string
}

// TurnResult is the outcome of one interview turn.
type TurnResult struct {
	CandidateText  string
	SpokenResponse string
	// Audio is the synthesized reply; nil when synthesis failed or was
	// skipped. Text is authoritative, audio is best-effort.
	Audio     []byte
	Terminate bool
}

// Report summarizes a finished (or abandoned) interview.
type Report struct {
	AverageScore int
	Scores       []interview.ScoreRecord
	Transcript   []interview.Turn
	Duration     time.Duration
}

// Orchestrator owns one session end to end. It is the sole writer of the
// session transcript and score list; the dialogue controller is the sole
// writer of the interview phase. Single-threaded: one turn completes before
// the next begins.
type Orchestrator struct {
	opts    Options
	sess    *interview.Session
	dialog  *brain.Brain
	profile interview.CandidateProfile
	obs     metrics.Observer
	logger  *slog.Logger
	now     func() time.Time
}

// New builds an orchestrator around a fresh READY session.
func New(opts Options) *Orchestrator {
	if opts.Observer == nil {
		opts.Observer = metrics.NoopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.Voice) == "" {
		opts.Voice = DefaultVoice
	}
	return &Orchestrator{
		opts:   opts,
		sess:   interview.NewSession(),
		obs:    opts.Observer,
		logger: logging.NewComponentLogger(opts.Logger, "orchestrator"),
		now:    opts.Now,
	}
}

// Session exposes the session for reporting. Callers must not mutate it.
func (o *Orchestrator) Session() *interview.Session { return o.sess }

// StartInterview resets the session and builds a fresh dialogue controller
// personalized to the candidate. This is the only way to (re)enter a usable
// session state. jobContext may be any value serializable to JSON; it is
// merged verbatim into generation prompts.
func (o *Orchestrator) StartInterview(profile interview.CandidateProfile, resumeText string, jobContext any) string {
	o.profile = profile
	o.sess.Reset(o.now())

	o.dialog = brain.New(brain.Options{
		Generator:     o.opts.Generator,
		Classifier:    o.opts.Classifier,
		Curriculum:    o.opts.Curriculum,
		Limits:        o.opts.Limits,
		StrategyBrief: strategy.Build(profile),
		JobContext:    serializeJobContext(jobContext),
		Observer:      o.obs,
		Logger:        o.opts.Logger,
	})

	o.logger.Info("interview started",
		slog.String("session_id", o.sess.ID.String()),
		slog.String("candidate", profile.DisplayName()),
		slog.Int("resume_chars", len(resumeText)))

	return brain.OpeningLine(profile)
}

// RunTurn processes one recorded answer through the full pipeline. All
// failures are recovered into fixed spoken responses; the returned error is
// non-nil only when the session was never started.
func (o *Orchestrator) RunTurn(ctx context.Context, audio []byte, mimeType string, opts TurnOptions) (TurnResult, error) {
	if o.dialog == nil {
		return TurnResult{}, fmt.Errorf("interview not started")
	}
	started := o.now()
	elapsed := o.sess.Elapsed(started)

	transcription, err := o.opts.Listener.Transcribe(ctx, audio, mimeType)
	if err != nil {
		o.logger.Warn("transcription failed", slog.String("error", err.Error()))
		o.obs.RecordEvent(metrics.Event{Name: metrics.EventTurnSTTError, Time: o.now()})
		return TurnResult{SpokenResponse: msgTroubleHearing}, nil
	}
	candidateText := strings.TrimSpace(transcription.Text)
	if candidateText == "" {
		o.obs.RecordEvent(metrics.Event{Name: metrics.EventTurnEmptyAudio, Time: o.now()})
		return TurnResult{SpokenResponse: msgDidNotCatch}, nil
	}

	result, panicked := o.handleInput(ctx, candidateText, elapsed)
	if panicked != "" {
		o.sess.LastError = panicked
		return TurnResult{CandidateText: candidateText, SpokenResponse: msgTechnicalIssue}, nil
	}
	if result.Diagnostic != "" {
		o.sess.LastError = result.Diagnostic
	}

	voice := opts.Voice
	if strings.TrimSpace(voice) == "" {
		voice = o.opts.Voice
	}
	var replyAudio []byte
	if synthesized, err := o.opts.Speaker.Synthesize(ctx, result.SpokenResponse, voice); err != nil {
		o.logger.Warn("synthesis failed, continuing without audio",
			slog.String("voice", voice),
			slog.String("error", err.Error()))
		o.obs.RecordEvent(metrics.Event{Name: metrics.EventTurnTTSError, Time: o.now()})
	} else {
		replyAudio = synthesized
	}

	o.sess.AppendTurn(interview.RoleCandidate, candidateText, elapsed)
	o.sess.AppendTurn(interview.RoleInterviewer, result.SpokenResponse, elapsed)
	if result.Score != nil {
		o.sess.AddScore(*result.Score)
	}
	o.sess.Phase = result.Phase
	if result.Terminate {
		o.sess.Phase = interview.PhaseTerminated
	}

	o.logger.Info("turn completed",
		slog.String("session_id", o.sess.ID.String()),
		slog.String("phase", string(o.sess.Phase)),
		slog.String("candidate_text", redact.Text(candidateText)),
		slog.Int("final_score", o.sess.FinalScore),
		slog.Bool("terminate", result.Terminate))
	o.obs.RecordEvent(metrics.Event{
		Name:  metrics.EventTurnCompleted,
		Time:  o.now(),
		Value: o.now().Sub(started).Seconds(),
		Tags:  map[string]string{"phase": string(o.sess.Phase)},
	})

	return TurnResult{
		CandidateText:  candidateText,
		SpokenResponse: result.SpokenResponse,
		Audio:          replyAudio,
		Terminate:      result.Terminate,
	}, nil
}

// handleInput isolates the dialogue controller call so an internal panic
// degrades to a fixed technical-issue turn instead of crashing the session.
func (o *Orchestrator) handleInput(ctx context.Context, text string, elapsed time.Duration) (result brain.Result, panicked string) {
	defer func() {
		if r := recover(); r != nil {
			panicked = fmt.Sprintf("dialogue controller panic: %v", r)
			o.logger.Error("dialogue controller panicked", slog.Any("panic", r))
		}
	}()
	result = o.dialog.HandleInput(ctx, text, elapsed)
	return result, ""
}

// FinalReport returns the running aggregate for the session.
func (o *Orchestrator) FinalReport() Report {
	return Report{
		AverageScore: o.sess.FinalScore,
		Scores:       append([]interview.ScoreRecord(nil), o.sess.Scores...),
		Transcript:   append([]interview.Turn(nil), o.sess.Transcript...),
		Duration:     o.sess.Elapsed(o.now()),
	}
}

func serializeJobContext(jobContext any) string {
	if jobContext == nil {
		return ""
	}
	if s, ok := jobContext.(string); ok {
		return s
	}
	raw, err := json.MarshalIndent(jobContext, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", jobContext)
	}
	return string(raw)
}
