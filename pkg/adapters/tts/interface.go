package tts

import "context"

// Synthesizer is the text-to-speech port. Synthesis is best-effort for the
// interview loop: callers treat a failure as "no audio", never as fatal.
type Synthesizer interface {
	// Name returns the vendor name for logging/metrics.
	Name() string
	// Synthesize renders spoken audio for the given text and voice.
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
