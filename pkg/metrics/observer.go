package metrics

import "time"

// Event names emitted by the interview core.
const (
	EventTurnCompleted  = "turn_completed"
	EventTurnEmptyAudio = "turn_empty_audio"
	EventTurnSTTError   = "turn_stt_error"
	EventTurnTTSError   = "turn_tts_error"
	EventLLMFallback    = "llm_fallback_attempt"
	EventLLMWinner      = "llm_winner"
	EventLLMExhausted   = "llm_exhausted"
	EventScoreRecorded  = "score_recorded"
	EventScoreDefaulted = "score_defaulted"
	EventAbuseStrike    = "abuse_strike"
	EventTerminated     = "session_terminated"
)

// Event is one observation from the interview pipeline. Value carries a
// duration in seconds or a score, depending on the event.
type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

// Observer receives pipeline events. Implementations must be cheap; turns
// are processed synchronously and observers sit on that path.
type Observer interface {
	RecordEvent(ev Event)
}

// NoopObserver discards everything.
type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// MultiObserver fans out to several observers.
type MultiObserver struct {
	observers []Observer
}

func NewMultiObserver(observers ...Observer) *MultiObserver {
	return &MultiObserver{observers: observers}
}

func (m *MultiObserver) RecordEvent(ev Event) {
	for _, o := range m.observers {
		o.RecordEvent(ev)
	}
}
