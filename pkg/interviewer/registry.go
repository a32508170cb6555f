package interviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
	"github.com/expertbridge/interviewer/pkg/adapters/tts"
	"github.com/expertbridge/interviewer/pkg/configutil"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/providers/azure"
	"github.com/expertbridge/interviewer/pkg/providers/deepgram"
	"github.com/expertbridge/interviewer/pkg/providers/elevenlabs"
	"github.com/expertbridge/interviewer/pkg/providers/gemini"
	"github.com/expertbridge/interviewer/pkg/providers/mock"
)

// Provider factories receive the vendor's free-form settings map from config.
type (
	STTFactory func(settings map[string]any) (stt.Transcriber, error)
	TTSFactory func(settings map[string]any) (tts.Synthesizer, error)
	LLMFactory func(ctx context.Context, settings map[string]any) (llm.CompletionClient, error)
)

// ProviderRegistry maps vendor names from config onto provider constructors.
type ProviderRegistry struct {
	stt map[string]STTFactory
	tts map[string]TTSFactory
	llm map[string]LLMFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		stt: make(map[string]STTFactory),
		tts: make(map[string]TTSFactory),
		llm: make(map[string]LLMFactory),
	}
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) BuildSTT(provider string, settings map[string]any) (stt.Transcriber, error) {
	fn := r.stt[normalizeProvider(provider)]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", provider)
	}
	return fn(settings)
}

func (r *ProviderRegistry) BuildTTS(provider string, settings map[string]any) (tts.Synthesizer, error) {
	fn := r.tts[normalizeProvider(provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", provider)
	}
	return fn(settings)
}

func (r *ProviderRegistry) BuildLLM(ctx context.Context, provider string, settings map[string]any) (llm.CompletionClient, error) {
	fn := r.llm[normalizeProvider(provider)]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", provider)
	}
	return fn(ctx, settings)
}

func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterDefaults installs the built-in providers. Callers can register
// additional vendors before building an engine.
func RegisterDefaults(r *ProviderRegistry) {
	r.RegisterSTT("deepgram", func(settings map[string]any) (stt.Transcriber, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model"},
		}); err != nil {
			return nil, fmt.Errorf("deepgram stt settings: %w", err)
		}
		var cfg deepgram.Config
		if err := configutil.DecodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return deepgram.NewTranscriber(cfg)
	})
	r.RegisterSTT("mock", func(settings map[string]any) (stt.Transcriber, error) {
		return mock.NewTranscriber(), nil
	})

	r.RegisterTTS("deepgram", func(settings map[string]any) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model"},
		}); err != nil {
			return nil, fmt.Errorf("deepgram tts settings: %w", err)
		}
		var cfg deepgram.Config
		if err := configutil.DecodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return deepgram.NewSynthesizer(cfg)
	})
	r.RegisterTTS("elevenlabs", func(settings map[string]any) (tts.Synthesizer, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"voice_id", "model_id", "output_format"},
		}); err != nil {
			return nil, fmt.Errorf("elevenlabs settings: %w", err)
		}
		var cfg elevenlabs.Config
		if err := configutil.DecodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return elevenlabs.New(cfg)
	})
	r.RegisterTTS("mock", func(settings map[string]any) (tts.Synthesizer, error) {
		return mock.NewSynthesizer(), nil
	})

	r.RegisterLLM("azure", func(ctx context.Context, settings map[string]any) (llm.CompletionClient, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"endpoint", "api_key"},
			Optional: []string{"api_version"},
		}); err != nil {
			return nil, fmt.Errorf("azure settings: %w", err)
		}
		var cfg azure.Config
		if err := configutil.DecodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return azure.New(cfg)
	})
	r.RegisterLLM("gemini", func(ctx context.Context, settings map[string]any) (llm.CompletionClient, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"api_key"},
		}); err != nil {
			return nil, fmt.Errorf("gemini settings: %w", err)
		}
		var cfg gemini.Config
		if err := configutil.DecodeSettings(settings, &cfg); err != nil {
			return nil, err
		}
		return gemini.New(ctx, cfg)
	})
	r.RegisterLLM("mock", func(ctx context.Context, settings map[string]any) (llm.CompletionClient, error) {
		return mock.NewCompletionClient(), nil
	})
}
