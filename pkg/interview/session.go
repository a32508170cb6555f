package interview

import (
	"time"

	"github.com/google/uuid"
)

// Phase identifies where a session is in its lifecycle. READY and ACTIVE are
// orchestrator-level phases; the remaining values are owned by the dialogue
// controller. TERMINATED is absorbing.
type Phase string

const (
	PhaseReady      Phase = "READY"
	PhaseActive     Phase = "ACTIVE"
	PhaseOpening    Phase = "OPENING"
	PhaseQuestions  Phase = "QUESTIONS"
	PhaseClosing    Phase = "CLOSING"
	PhaseWarning    Phase = "WARNING"
	PhaseTerminated Phase = "TERMINATED"
)

// Role tags a transcript entry with its speaker.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

// Turn is one transcript entry. Turns are append-only and never mutated.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Duration
}

// Session holds all mutable state for a single in-memory interview. It is
// owned by exactly one orchestrator; nothing else writes to it.
type Session struct {
	ID         uuid.UUID
	Phase      Phase
	StartedAt  time.Time
	Transcript []Turn
	Scores     []ScoreRecord
	FinalScore int
	LastError  string
}

// NewSession returns a fresh session in the READY phase.
func NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		Phase: PhaseReady,
	}
}

// Reset clears transcript, scores and diagnostics and marks the session
// ACTIVE with the given start time.
func (s *Session) Reset(start time.Time) {
	s.Phase = PhaseActive
	s.StartedAt = start
	s.Transcript = nil
	s.Scores = nil
	s.FinalScore = 0
	s.LastError = ""
}

// AppendTurn records one transcript entry.
func (s *Session) AppendTurn(role Role, text string, at time.Duration) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Text: text, Timestamp: at})
}

// AddScore appends a score record and recomputes the running final score as
// the integer-truncated mean of all overall scores so far.
func (s *Session) AddScore(rec ScoreRecord) {
	s.Scores = append(s.Scores, rec)
	total := 0
	for _, r := range s.Scores {
		total += r.OverallScore
	}
	s.FinalScore = total / len(s.Scores)
}

// Elapsed returns interview time since start, zero before the first start.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
