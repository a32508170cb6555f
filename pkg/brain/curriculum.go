package brain

import "fmt"

// QuestionRole is the job a question does within its topic.
type QuestionRole string

const (
	RoleOverview   QuestionRole = "overview"
	RoleDeepDive   QuestionRole = "deep-dive"
	RoleTechnical  QuestionRole = "technical"
	RoleTradeOffs  QuestionRole = "trade-offs"
	RoleReflection QuestionRole = "reflection"
)

// Slot is one position in the interview curriculum.
type Slot struct {
	Topic string
	Role  QuestionRole
}

// Curriculum is the fixed, ordered question plan. Slots are consumed strictly
// in order by the raw question counter; a topic's slots, once consumed, are
// never revisited. The default plan is 8 slots: 4 topics, 2 questions each.
type Curriculum []Slot

// DefaultCurriculum returns the stock 8-slot plan.
func DefaultCurriculum() Curriculum {
	return Curriculum{
		{Topic: "background and recent work", Role: RoleOverview},
		{Topic: "background and recent work", Role: RoleDeepDive},
		{Topic: "technical depth in their primary domain", Role: RoleOverview},
		{Topic: "technical depth in their primary domain", Role: RoleTechnical},
		{Topic: "decision making under constraints", Role: RoleOverview},
		{Topic: "decision making under constraints", Role: RoleTradeOffs},
		{Topic: "collaboration and growth", Role: RoleOverview},
		{Topic: "collaboration and growth", Role: RoleReflection},
	}
}

// Len returns the number of question slots in the plan.
func (c Curriculum) Len() int { return len(c) }

// DirectiveFor maps a zero-based question index onto the topic instruction
// for that slot. Indexes past the plan fall back to a generic final-question
// directive; in normal flow the exhaustion check intercepts those first.
func (c Curriculum) DirectiveFor(index int) string {
	if index < 0 || index >= len(c) {
		return "[TOPIC DIRECTIVE] The planned topics are covered. Ask ONE final specific question, then move to close."
	}
	s := c[index]
	switch s.Role {
	case RoleOverview:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Focus on %s. Ask an overview question that lets the candidate frame their experience.", s.Topic)
	case RoleDeepDive:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Stay on %s. Ask a deep-dive follow-up demanding specifics: metrics, outcomes, before/after.", s.Topic)
	case RoleTechnical:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Stay on %s. Ask one pointed technical question probing how things actually worked.", s.Topic)
	case RoleTradeOffs:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Stay on %s. Ask about a trade-off they made: what they gave up and why.", s.Topic)
	case RoleReflection:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Stay on %s. Ask a reflective question: what they would do differently today.", s.Topic)
	default:
		return fmt.Sprintf("[TOPIC DIRECTIVE] Focus on %s. Ask one specific question.", s.Topic)
	}
}
