package interview

import (
	"testing"
	"time"
)

func TestAddScoreTruncatedMean(t *testing.T) {
	s := NewSession()
	s.Reset(time.Now())

	s.AddScore(ScoreRecord{OverallScore: 70})
	if s.FinalScore != 70 {
		t.Fatalf("got %d, want 70", s.FinalScore)
	}
	s.AddScore(ScoreRecord{OverallScore: 75})
	if s.FinalScore != 72 {
		t.Fatalf("mean of 70 and 75 should truncate to 72, got %d", s.FinalScore)
	}
	s.AddScore(ScoreRecord{OverallScore: 80})
	if s.FinalScore != 75 {
		t.Fatalf("got %d, want 75", s.FinalScore)
	}
}

func TestResetClearsState(t *testing.T) {
	s := NewSession()
	s.Reset(time.Now())
	s.AppendTurn(RoleCandidate, "hello", time.Second)
	s.AddScore(ScoreRecord{OverallScore: 90})
	s.LastError = "boom"

	s.Reset(time.Now())
	if len(s.Transcript) != 0 || len(s.Scores) != 0 || s.FinalScore != 0 || s.LastError != "" {
		t.Fatalf("reset did not clear state: %+v", s)
	}
	if s.Phase != PhaseActive {
		t.Fatalf("reset should activate the session, got %s", s.Phase)
	}
}

func TestElapsedBeforeStart(t *testing.T) {
	s := NewSession()
	if got := s.Elapsed(time.Now()); got != 0 {
		t.Fatalf("elapsed before start should be 0, got %v", got)
	}
	start := time.Now()
	s.Reset(start)
	if got := s.Elapsed(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Fatalf("got %v, want 90s", got)
	}
}

func TestNeutralScore(t *testing.T) {
	n := NeutralScore()
	if n.DepthScore != 3 || n.ThinkingScore != 3 || n.FitScore != 3 || n.OverallScore != 60 {
		t.Fatalf("unexpected neutral score: %+v", n)
	}
}
