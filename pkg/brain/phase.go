package brain

import (
	"log/slog"

	"github.com/expertbridge/interviewer/pkg/interview"
)

// validTransitions encodes which phase moves the dialogue controller may
// make. TERMINATED is absorbing: it has no exits, so no later input can
// resurrect a finished interview.
var validTransitions = map[interview.Phase][]interview.Phase{
	interview.PhaseOpening:   {interview.PhaseOpening, interview.PhaseQuestions, interview.PhaseClosing, interview.PhaseWarning, interview.PhaseTerminated},
	interview.PhaseQuestions: {interview.PhaseQuestions, interview.PhaseClosing, interview.PhaseWarning, interview.PhaseTerminated},
	interview.PhaseClosing:   {interview.PhaseClosing, interview.PhaseWarning, interview.PhaseTerminated},
	interview.PhaseWarning:   {interview.PhaseOpening, interview.PhaseQuestions, interview.PhaseClosing, interview.PhaseWarning, interview.PhaseTerminated},
}

func transitionValid(from, to interview.Phase) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// transition moves the controller to a new phase, refusing invalid moves.
// A refused transition keeps the current phase; the controller's policy
// checks should make that unreachable, so it is logged loudly.
func (b *Brain) transition(to interview.Phase, reason string) {
	if b.phase == to {
		return
	}
	if !transitionValid(b.phase, to) {
		b.logger.Error("invalid phase transition refused",
			slog.String("from", string(b.phase)),
			slog.String("to", string(to)),
			slog.String("reason", reason))
		return
	}
	b.logger.Info("phase transition",
		slog.String("from", string(b.phase)),
		slog.String("to", string(to)),
		slog.String("reason", reason))
	b.phase = to
}
