package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/metrics"
)

// Limits are the interview clock thresholds. The hard limit ends the
// interview outright; the softer ones steer the generator toward a close.
type Limits struct {
	Hard       time.Duration
	FinalWarn  time.Duration
	Concluding time.Duration
}

// DefaultLimits matches the 15-minute screening format: hard stop just
// under 15 minutes, wrap-up directives at 13 and 10 minutes.
func DefaultLimits() Limits {
	return Limits{
		Hard:       890 * time.Second,
		FinalWarn:  780 * time.Second,
		Concluding: 600 * time.Second,
	}
}

// Options configures a Brain. Generator is required; everything else has a
// usable default.
type Options struct {
	Generator     *llm.Generator
	Classifier    Classifier
	Curriculum    Curriculum
	Limits        Limits
	StrategyBrief string
	JobContext    string
	Observer      metrics.Observer
	Logger        *slog.Logger
}

// Brain is the dialogue controller for one interview session. It owns the
// phase, strike and question-count state and decides, turn by turn, what the
// interviewer says next. It is not safe for concurrent use; each session
// gets its own instance.
type Brain struct {
	gen        *llm.Generator
	classifier Classifier
	curriculum Curriculum
	limits     Limits
	strategy   string
	jobContext string
	obs        metrics.Observer
	logger     *slog.Logger

	history       []llm.Message
	phase         interview.Phase
	strikes       int
	questionCount int
}

// Result is the outcome of one candidate input.
type Result struct {
	SpokenResponse string
	Score          *interview.ScoreRecord
	Terminate      bool
	WarningIssued  bool
	Phase          interview.Phase
	// Diagnostic carries suppressed internal failure detail for the session
	// log; it is never shown to the candidate.
	Diagnostic string
}

// New builds a dialogue controller.
func New(opts Options) *Brain {
	if opts.Classifier == nil {
		opts.Classifier = NewKeywordClassifier(nil, nil)
	}
	if len(opts.Curriculum) == 0 {
		opts.Curriculum = DefaultCurriculum()
	}
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	if opts.Observer == nil {
		opts.Observer = metrics.NoopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Brain{
		gen:        opts.Generator,
		classifier: opts.Classifier,
		curriculum: opts.Curriculum,
		limits:     opts.Limits,
		strategy:   opts.StrategyBrief,
		jobContext: opts.JobContext,
		obs:        opts.Observer,
		logger:     logging.NewComponentLogger(opts.Logger, "brain"),
		phase:      interview.PhaseOpening,
	}
}

// Phase returns the controller's current phase.
func (b *Brain) Phase() interview.Phase { return b.phase }

// QuestionCount returns how many questions have been asked so far.
func (b *Brain) QuestionCount() int { return b.questionCount }

// Strikes returns the abuse strike count.
func (b *Brain) Strikes() int { return b.strikes }

// HandleInput processes one candidate answer. Checks run in strict priority
// order: abuse, hard time limit, curriculum exhaustion, then a standard
// generated turn.
func (b *Brain) HandleInput(ctx context.Context, candidateText string, elapsed time.Duration) Result {
	if b.phase == interview.PhaseTerminated {
		return Result{
			SpokenResponse: msgTerminated,
			Terminate:      true,
			Phase:          interview.PhaseTerminated,
		}
	}

	if b.classifier.Classify(candidateText).Abusive {
		return b.handleStrike()
	}

	if elapsed > b.limits.Hard {
		b.transition(interview.PhaseTerminated, "hard time limit")
		b.obs.RecordEvent(metrics.Event{
			Name: metrics.EventTerminated,
			Time: time.Now(),
			Tags: map[string]string{"cause": "time_limit"},
		})
		return Result{
			SpokenResponse: msgTimeLimit,
			Terminate:      true,
			Phase:          b.phase,
		}
	}

	if b.questionCount >= b.curriculum.Len() {
		return b.closeOut(ctx, candidateText)
	}

	return b.standardTurn(ctx, candidateText, elapsed)
}

func (b *Brain) handleStrike() Result {
	b.strikes++
	b.logger.Warn("abusive input detected", slog.Int("strike", b.strikes))
	b.obs.RecordEvent(metrics.Event{
		Name:  metrics.EventAbuseStrike,
		Time:  time.Now(),
		Value: float64(b.strikes),
	})
	if b.strikes == 1 {
		b.transition(interview.PhaseWarning, "first strike")
		return Result{
			SpokenResponse: msgFirstWarning,
			WarningIssued:  true,
			Phase:          b.phase,
		}
	}
	b.transition(interview.PhaseTerminated, "second strike")
	b.obs.RecordEvent(metrics.Event{
		Name: metrics.EventTerminated,
		Time: time.Now(),
		Tags: map[string]string{"cause": "conduct"},
	})
	return Result{
		SpokenResponse: msgTerminated,
		Terminate:      true,
		Phase:          b.phase,
	}
}

// closeOut runs the one-shot closing turn after the curriculum is spent. The
// candidate's final answer still gets scored so the record is complete.
func (b *Brain) closeOut(ctx context.Context, candidateText string) Result {
	messages := make([]llm.Message, 0, len(b.history)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: interviewerPersona})
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: closingDirective})
	messages = append(messages, b.history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: candidateText})

	spoken := msgClosingFixed
	diagnostic := ""
	if completion, err := b.gen.Generate(ctx, messages, llm.ModeDialogue); err == nil {
		spoken = repairSpokenText(completion.Text)
	} else {
		diagnostic = fmt.Sprintf("closing generation failed: %v", err)
		b.logger.Warn("closing generation failed, using fixed closing", slog.String("error", err.Error()))
	}

	score := b.scoreAnswer(ctx, candidateText)
	b.transition(interview.PhaseTerminated, "curriculum exhausted")
	b.obs.RecordEvent(metrics.Event{
		Name: metrics.EventTerminated,
		Time: time.Now(),
		Tags: map[string]string{"cause": "curriculum_complete"},
	})
	return Result{
		SpokenResponse: spoken,
		Score:          &score,
		Terminate:      true,
		Phase:          b.phase,
		Diagnostic:     diagnostic,
	}
}

func (b *Brain) standardTurn(ctx context.Context, candidateText string, elapsed time.Duration) Result {
	messages := b.buildMessages(candidateText, elapsed)

	var res Result
	completion, err := b.gen.Generate(ctx, messages, llm.ModeDialogue)
	if err != nil {
		// The counter is not incremented, so the same topic directive
		// repeats on the next turn.
		b.logger.Error("spoken response generation failed", slog.String("error", err.Error()))
		b.obs.RecordEvent(metrics.Event{Name: metrics.EventLLMExhausted, Time: time.Now()})
		res.SpokenResponse = msgApology
		res.Diagnostic = fmt.Sprintf("generation failed: %v", err)
	} else {
		spoken := repairSpokenText(completion.Text)
		b.history = append(b.history,
			llm.Message{Role: llm.RoleUser, Content: candidateText},
			llm.Message{Role: llm.RoleAssistant, Content: spoken},
		)
		b.questionCount++
		res.SpokenResponse = spoken
	}

	score := b.scoreAnswer(ctx, candidateText)
	res.Score = &score

	switch {
	case b.questionCount <= 1:
		b.transition(interview.PhaseOpening, "question count")
	case b.questionCount < b.curriculum.Len():
		b.transition(interview.PhaseQuestions, "question count")
	default:
		b.transition(interview.PhaseClosing, "curriculum nearly spent")
	}

	if err == nil && b.shouldCloseEarly(res.SpokenResponse, elapsed) {
		b.transition(interview.PhaseTerminated, "generator closed the conversation")
		b.obs.RecordEvent(metrics.Event{
			Name: metrics.EventTerminated,
			Time: time.Now(),
			Tags: map[string]string{"cause": "early_close"},
		})
		res.Terminate = true
	}

	res.Phase = b.phase
	return res
}

// shouldCloseEarly is the single predicate behind the early-closing
// heuristic: late in the interview, a generated reply that reads as a
// goodbye is honored instead of forcing another question. Keyword-based and
// known to be able to false-positive; kept isolated so it can be tightened
// without touching the transition logic.
func (b *Brain) shouldCloseEarly(response string, elapsed time.Duration) bool {
	return elapsed > b.limits.Concluding && b.classifier.Classify(response).Closing
}

func (b *Brain) buildMessages(candidateText string, elapsed time.Duration) []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+6)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: interviewerPersona})
	if strings.TrimSpace(b.strategy) != "" {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: "[EXPERT PROFILE & STRATEGY]\n" + b.strategy,
		})
	}
	if strings.TrimSpace(b.jobContext) != "" {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: "[JOB CONTEXT]\n" + b.jobContext,
		})
	}
	if elapsed > b.limits.FinalWarn {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: timeDirectiveFinal})
	} else if elapsed > b.limits.Concluding {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: timeDirectiveConcluding})
	}
	messages = append(messages, b.history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: b.curriculum.DirectiveFor(b.questionCount),
	})
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: candidateText})
	return messages
}

// scoreAnswer runs the rubric call. Scoring is best-effort: any failure
// substitutes the neutral default so the conversation never stalls on it.
func (b *Brain) scoreAnswer(ctx context.Context, candidateText string) interview.ScoreRecord {
	prompt := fmt.Sprintf(scoringRubric, candidateText)
	completion, err := b.gen.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, llm.ModeAnalysis)
	if err != nil {
		b.logger.Warn("scoring call failed, using neutral default", slog.String("error", err.Error()))
		b.obs.RecordEvent(metrics.Event{Name: metrics.EventScoreDefaulted, Time: time.Now()})
		return interview.NeutralScore()
	}
	var rec interview.ScoreRecord
	if err := json.Unmarshal([]byte(extractJSONObject(completion.Text)), &rec); err != nil {
		b.logger.Warn("scoring response unparsable, using neutral default", slog.String("error", err.Error()))
		b.obs.RecordEvent(metrics.Event{Name: metrics.EventScoreDefaulted, Time: time.Now()})
		return interview.NeutralScore()
	}
	b.obs.RecordEvent(metrics.Event{
		Name:  metrics.EventScoreRecorded,
		Time:  time.Now(),
		Value: float64(rec.OverallScore),
		Tags:  map[string]string{"model": completion.Model},
	})
	return rec
}

// repairSpokenText recovers plain text when the generator emits JSON instead
// of prose. On any parse failure the raw text is used as-is.
func repairSpokenText(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") || !strings.Contains(text, "response_text") {
		return text
	}
	var payload struct {
		ResponseText string `json:"response_text"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload.ResponseText == "" {
		return text
	}
	return payload.ResponseText
}

// extractJSONObject strips code fences and surrounding prose from a model
// response, returning the outermost {...} span when one exists.
func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			return text[i : j+1]
		}
	}
	return text
}
