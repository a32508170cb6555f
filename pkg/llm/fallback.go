package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/metrics"
)

// Mode selects the sampling profile for a generation request.
type Mode string

const (
	// ModeDialogue is the conversational profile (temperature 0.7, capped
	// output suitable for spoken replies).
	ModeDialogue Mode = "dialogue"
	// ModeAnalysis is the scoring/assessment profile (temperature 0.3,
	// JSON object response).
	ModeAnalysis Mode = "analysis"
)

const (
	dialogueTemperature = 0.7
	dialogueMaxTokens   = 300
	analysisTemperature = 0.3
)

// Completion is a successful generation with the model that produced it.
type Completion struct {
	Text  string
	Model string
}

// Attempt records one failed candidate during a fallback sweep.
type Attempt struct {
	Model string
	Err   string
}

// ExhaustedError reports that every candidate model failed, in order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Model, a.Err))
	}
	return "all candidate models exhausted: " + strings.Join(parts, "; ")
}

// CandidateModels orders the fallback list: the preferred model first, then
// the pool in its configured order, duplicates removed.
func CandidateModels(preferred string, pool []string) []string {
	out := make([]string, 0, len(pool)+1)
	seen := make(map[string]struct{}, len(pool)+1)
	add := func(m string) {
		m = strings.TrimSpace(m)
		if m == "" {
			return
		}
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	add(preferred)
	for _, m := range pool {
		add(m)
	}
	return out
}

// Generator issues completions against an ordered candidate list, falling
// back across models and across request shapes. It keeps no state between
// calls; attempts are sequential so that the first success wins, not the
// fastest.
type Generator struct {
	client     CompletionClient
	candidates []string
	obs        metrics.Observer
	logger     *slog.Logger
}

// NewGenerator builds a generator over the given candidate model list. The
// list must be non-empty; both dialogue and analysis calls walk it in the
// same order.
func NewGenerator(client CompletionClient, candidates []string) *Generator {
	return &Generator{
		client:     client,
		candidates: candidates,
		obs:        metrics.NoopObserver{},
		logger:     logging.NewComponentLogger(slog.Default(), "llm_fallback"),
	}
}

// SetObserver attaches a metrics observer for fallback events.
func (g *Generator) SetObserver(obs metrics.Observer) {
	if obs != nil {
		g.obs = obs
	}
}

// Candidates returns the configured model order.
func (g *Generator) Candidates() []string {
	out := make([]string, len(g.candidates))
	copy(out, g.candidates)
	return out
}

// Generate walks the candidate list in order. Each model is first tried with
// the standard request shape; a ClassUnsupportedParams failure retries the
// same model once with the reduced shape. Any other failure advances to the
// next model. The first non-empty response terminates the sweep.
func (g *Generator) Generate(ctx context.Context, messages []Message, mode Mode) (Completion, error) {
	if len(g.candidates) == 0 {
		return Completion{}, ExhaustedError{}
	}

	params := paramsFor(mode)
	var attempts []Attempt

	for _, model := range g.candidates {
		start := time.Now()
		text, err := g.client.Complete(ctx, model, messages, params)
		if err != nil && Classify(err) == ClassUnsupportedParams {
			g.logger.Warn("standard shape rejected, retrying reduced",
				slog.String("model", model),
				slog.String("mode", string(mode)))
			reduced := params
			reduced.Reduced = true
			reduced.Temperature = 0
			reduced.MaxTokens = 0
			text, err = g.client.Complete(ctx, model, messages, reduced)
		}
		if err == nil && strings.TrimSpace(text) != "" {
			g.obs.RecordEvent(metrics.Event{
				Name:  metrics.EventLLMWinner,
				Time:  time.Now(),
				Value: time.Since(start).Seconds(),
				Tags:  map[string]string{"model": model, "mode": string(mode)},
			})
			g.logger.Debug("generation succeeded",
				slog.String("model", model),
				slog.String("mode", string(mode)),
				slog.Int("attempts", len(attempts)+1))
			return Completion{Text: text, Model: model}, nil
		}
		reason := "empty response"
		if err != nil {
			reason = err.Error()
		}
		attempts = append(attempts, Attempt{Model: model, Err: reason})
		g.obs.RecordEvent(metrics.Event{
			Name: metrics.EventLLMFallback,
			Time: time.Now(),
			Tags: map[string]string{"model": model, "mode": string(mode)},
		})
		g.logger.Warn("candidate model failed",
			slog.String("model", model),
			slog.String("mode", string(mode)),
			slog.String("error", reason))
	}

	return Completion{}, ExhaustedError{Attempts: attempts}
}

func paramsFor(mode Mode) Params {
	if mode == ModeAnalysis {
		return Params{Temperature: analysisTemperature, JSON: true}
	}
	return Params{Temperature: dialogueTemperature, MaxTokens: dialogueMaxTokens}
}
