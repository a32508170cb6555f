// Package mock provides in-memory providers for tests and offline runs.
package mock

import (
	"context"
	"sync"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
)

// Transcriber returns scripted transcripts in order, then repeats the last
// one. An empty script yields empty transcriptions.
type Transcriber struct {
	mu      sync.Mutex
	texts   []string
	idx     int
	err     error
	lastIn  []byte
	nCalled int
}

func NewTranscriber(texts ...string) *Transcriber {
	return &Transcriber{texts: texts}
}

// FailWith makes every Transcribe call return err.
func (t *Transcriber) FailWith(err error) *Transcriber {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
	return t
}

func (t *Transcriber) Name() string { return "mock_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (stt.Transcription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nCalled++
	t.lastIn = audio
	if t.err != nil {
		return stt.Transcription{}, t.err
	}
	if len(t.texts) == 0 {
		return stt.Transcription{}, nil
	}
	text := t.texts[t.idx]
	if t.idx < len(t.texts)-1 {
		t.idx++
	}
	return stt.Transcription{Text: text, Language: "en"}, nil
}

// Calls reports how many times Transcribe ran.
func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nCalled
}

var _ stt.Transcriber = (*Transcriber)(nil)
