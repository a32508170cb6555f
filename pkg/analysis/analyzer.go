// Package analysis produces the post-interview hiring review from a finished
// session transcript.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/logging"
)

// Long interviews are truncated from the front so the review sees the most
// recent exchanges.
const maxTranscriptChars = 15000

const reviewSystem = `You are a hiring committee reviewer.
You are given the full transcript of a screening interview.
Produce a structured assessment of the candidate as JSON with this exact shape:
{
  "summary": "<2-3 sentence overall assessment>",
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "rating": <integer 1-10>
}
Return ONLY the JSON object.`

// Report is the committee-style review of one interview.
type Report struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Rating     int      `json:"rating"`
}

// Analyzer runs the review over the resilient generation path, so the same
// model fallback order applies as during the interview.
type Analyzer struct {
	gen    *llm.Generator
	logger *slog.Logger
}

func New(gen *llm.Generator, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		gen:    gen,
		logger: logging.NewComponentLogger(logger, "analysis"),
	}
}

// Review assesses a finished session. Unlike per-answer scoring there is no
// neutral default here; a failed review is an error the caller must see.
func (a *Analyzer) Review(ctx context.Context, sess *interview.Session, profile interview.CandidateProfile) (Report, error) {
	if len(sess.Transcript) == 0 {
		return Report{}, errorsx.Wrap(fmt.Errorf("analysis: empty transcript"), errorsx.ReasonLLMScore)
	}

	prompt := fmt.Sprintf("Candidate: %s\nRunning interview score: %d/100\n\nTranscript:\n%s",
		profile.DisplayName(), sess.FinalScore, renderTranscript(sess.Transcript))

	completion, err := a.gen.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: reviewSystem},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ModeAnalysis)
	if err != nil {
		return Report{}, errorsx.Wrap(err, errorsx.ReasonLLMScore)
	}

	var report Report
	if err := json.Unmarshal([]byte(extractJSONObject(completion.Text)), &report); err != nil {
		a.logger.Warn("review response unparsable",
			slog.String("model", completion.Model),
			slog.String("error", err.Error()))
		return Report{}, errorsx.Wrap(fmt.Errorf("analysis: decode review: %w", err), errorsx.ReasonLLMScore)
	}
	a.logger.Info("review completed",
		slog.String("model", completion.Model),
		slog.Int("rating", report.Rating))
	return report, nil
}

func renderTranscript(turns []interview.Turn) string {
	var sb strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&sb, "[%s] %s\n", turn.Role, turn.Text)
	}
	text := sb.String()
	if len(text) > maxTranscriptChars {
		text = text[len(text)-maxTranscriptChars:]
	}
	return text
}

func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			return text[i : j+1]
		}
	}
	return text
}
