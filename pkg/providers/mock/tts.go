package mock

import (
	"context"
	"sync"

	"github.com/expertbridge/interviewer/pkg/adapters/tts"
)

// Synthesizer echoes the input text as audio bytes so tests can assert what
// was spoken.
type Synthesizer struct {
	mu     sync.Mutex
	err    error
	spoken []string
}

func NewSynthesizer() *Synthesizer { return &Synthesizer{} }

// FailWith makes every Synthesize call return err.
func (s *Synthesizer) FailWith(err error) *Synthesizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.spoken = append(s.spoken, text)
	return []byte(text), nil
}

// Spoken returns every text synthesized so far.
func (s *Synthesizer) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
