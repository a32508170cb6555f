package interview

// ScoreRecord is the structured assessment of one candidate answer. Records
// are immutable once created; the session aggregates them into FinalScore.
type ScoreRecord struct {
	DepthScore        int      `json:"depth_score"`
	ThinkingScore     int      `json:"thinking_score"`
	FitScore          int      `json:"fit_score"`
	OverallScore      int      `json:"overall_score"`
	DepthReasoning    string   `json:"depth_reasoning"`
	ThinkingReasoning string   `json:"thinking_reasoning"`
	FitReasoning      string   `json:"fit_reasoning"`
	RedFlags          []string `json:"red_flags"`
	KeyStrengths      []string `json:"key_strengths"`
	SuggestedFollowUp string   `json:"suggested_follow_up"`
}

// NeutralScore is the substitute record used whenever the scoring call fails.
// Scoring is best-effort and must never block the conversation.
func NeutralScore() ScoreRecord {
	return ScoreRecord{
		DepthScore:        3,
		ThinkingScore:     3,
		FitScore:          3,
		OverallScore:      60,
		DepthReasoning:    "N/A",
		ThinkingReasoning: "N/A",
		FitReasoning:      "N/A",
		SuggestedFollowUp: "Continue",
	}
}
