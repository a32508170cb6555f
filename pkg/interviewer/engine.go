package interviewer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
	"github.com/expertbridge/interviewer/pkg/adapters/tts"
	"github.com/expertbridge/interviewer/pkg/analysis"
	"github.com/expertbridge/interviewer/pkg/brain"
	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/metrics"
	"github.com/expertbridge/interviewer/pkg/orchestrator"
	"github.com/expertbridge/interviewer/pkg/redact"
)

// Engine holds the built providers for a configured deployment and stamps
// out one orchestrator per interview session.
type Engine struct {
	cfg      Config
	listener stt.Transcriber
	speaker  tts.Synthesizer
	client   llm.CompletionClient
	gen      *llm.Generator
	obs      metrics.Observer
	recent   *metrics.MemoryObserver
	logger   *slog.Logger
	closers  []func() error
}

// NewEngine builds every configured provider up front so a misconfigured
// vendor fails at startup, not mid-interview.
func NewEngine(ctx context.Context, cfg Config, registry *ProviderRegistry) (*Engine, error) {
	if registry == nil {
		registry = NewProviderRegistry()
		RegisterDefaults(registry)
	}

	logger := logging.NewComponentLogger(slog.Default(), "engine")
	redact.SetEnabled(cfg.Privacy.RedactPII)

	listener, err := registry.BuildSTT(cfg.Vendors.STT.Provider, cfg.Vendors.STT.Settings)
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("build stt provider: %w", err), errorsx.ReasonProviderBuild)
	}
	speaker, err := registry.BuildTTS(cfg.Vendors.TTS.Provider, cfg.Vendors.TTS.Settings)
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("build tts provider: %w", err), errorsx.ReasonProviderBuild)
	}
	client, err := registry.BuildLLM(ctx, cfg.Vendors.LLM.Provider, cfg.Vendors.LLM.Settings)
	if err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("build llm provider: %w", err), errorsx.ReasonProviderBuild)
	}

	eng := &Engine{
		cfg:      cfg,
		listener: listener,
		speaker:  speaker,
		client:   client,
		recent:   metrics.NewMemoryObserver(),
		logger:   logger,
	}
	eng.obs = eng.recent

	if dir := cfg.Observability.ArtifactsDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errorsx.Wrap(fmt.Errorf("create artifacts dir: %w", err), errorsx.ReasonConfigInvalid)
		}
		f, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errorsx.Wrap(fmt.Errorf("open events file: %w", err), errorsx.ReasonConfigInvalid)
		}
		eng.obs = metrics.NewMultiObserver(eng.recent, metrics.NewJSONLObserver(f))
		eng.closers = append(eng.closers, f.Close)
	}

	candidates := llm.CandidateModels(cfg.Models.Preferred, cfg.Models.Candidates)
	eng.gen = llm.NewGenerator(client, candidates)
	eng.gen.SetObserver(eng.obs)

	logger.Info("engine ready",
		slog.String("stt", listener.Name()),
		slog.String("tts", speaker.Name()),
		slog.String("llm", client.Name()),
		slog.Any("models", candidates))
	return eng, nil
}

// Generator exposes the resilient generation path, e.g. for topic extraction
// before a session starts.
func (e *Engine) Generator() *llm.Generator { return e.gen }

// Observer exposes the engine's metrics sink.
func (e *Engine) Observer() metrics.Observer { return e.obs }

// Events returns everything observed since the engine started, for summary
// output after a session.
func (e *Engine) Events() []metrics.Event { return e.recent.Events() }

// NewSession builds an orchestrator wired to the engine's providers and the
// configured interview limits. Each session is independent.
func (e *Engine) NewSession() *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Options{
		Listener:   e.listener,
		Speaker:    e.speaker,
		Generator:  e.gen,
		Classifier: brain.NewKeywordClassifier(e.cfg.Interview.AbuseKeywords, e.cfg.Interview.ClosingPhrases),
		Limits: brain.Limits{
			Hard:       time.Duration(e.cfg.Interview.HardLimitSeconds) * time.Second,
			FinalWarn:  time.Duration(e.cfg.Interview.FinalWarnSeconds) * time.Second,
			Concluding: time.Duration(e.cfg.Interview.ConcludingSeconds) * time.Second,
		},
		Voice:    e.cfg.Interview.Voice,
		Observer: e.obs,
		Logger:   slog.Default(),
	})
}

// NewAnalyzer builds the post-interview reviewer on the same fallback order.
func (e *Engine) NewAnalyzer() *analysis.Analyzer {
	return analysis.New(e.gen, slog.Default())
}

// Close releases engine resources (artifact files).
func (e *Engine) Close() error {
	var firstErr error
	for _, closeFn := range e.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
