package stt

import "context"

// Transcription is the result of transcribing one answer.
type Transcription struct {
	Text     string
	Language string
}

// Transcriber is the prerecorded speech-to-text port. Implementations return
// an empty Text (and no error) for unintelligible or sub-threshold audio;
// errors are reserved for transport failures.
type Transcriber interface {
	// Name returns the vendor name for logging/metrics.
	Name() string
	// Transcribe converts one recorded answer to text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (Transcription, error)
}

// StreamingTranscriber is the live-capture port for deployments that stream
// microphone audio instead of posting one recording per turn.
type StreamingTranscriber interface {
	// Name returns the vendor name for logging/metrics.
	Name() string
	// Start opens the streaming connection.
	Start(ctx context.Context) error
	// Close shuts the connection down.
	Close() error
	// SendAudio forwards a chunk of captured audio.
	SendAudio(chunk []byte) error
	// Results delivers finalized transcript segments.
	Results() <-chan Transcription
}
