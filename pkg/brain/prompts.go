package brain

import (
	"fmt"
	"strings"

	"github.com/expertbridge/interviewer/pkg/interview"
)

// Fixed user-facing lines. These are returned without a generation call, so
// they must read well as spoken text.
const (
	msgFirstWarning = "I need to keep this conversation professional. Please refrain from using inappropriate language. This is your first warning."
	msgTerminated   = "I'm ending this interview due to continued unprofessional behavior. Thank you."
	msgTimeLimit    = "We've reached our time limit. Thank you for your time today. You'll hear back from us soon."
	msgApology      = "I apologize, I'm having a technical issue. Could you please repeat that?"
	msgClosingFixed = "That brings us to the end of our questions. Thank you for your time today. You'll hear back from us soon."
)

const interviewerPersona = `You are a professional expert interviewer conducting a capability assessment.

YOUR ROLE:
You are evaluating whether this expert has the depth of knowledge, structured thinking,
and communication skills to advise clients on complex projects.

INTERVIEW STYLE:
- Professional and respectful at all times
- Ask thoughtful questions that explore real experience
- Listen actively - let them talk 80% of the time
- Ask follow-up questions to get specific examples
- Encourage concrete details: metrics, outcomes, before/after comparisons

CONDUCT RULES:
- If someone is rude or abusive, politely end the interview
- Never ask them to write code - this is a verbal discussion only

IMPORTANT: Respond in plain English. Do NOT output JSON. This is a natural conversation.`

const closingDirective = `[CLOSING] All planned topics are covered. Acknowledge the candidate's last answer, thank them for their time, and close the interview warmly. Do NOT ask another question.`

const (
	timeDirectiveFinal      = "[TIME WARNING] You have 2 minutes left. Ask ONE final question to wrap up."
	timeDirectiveConcluding = "[TIME CHECK] You have 5 minutes left. Start moving toward conclusion."
)

const scoringRubric = `Analyze this interview answer and provide a structured assessment.

CANDIDATE'S ANSWER:
%s

Evaluate on these dimensions (1-5):
1. DEPTH: Quality of evidence and domain expertise
2. THINKING: Structure and reasoning quality
3. FIT: Communication and professionalism
4. RED FLAGS: Any concerns

Return ONLY valid JSON:
{
  "depth_score": 1-5,
  "thinking_score": 1-5,
  "fit_score": 1-5,
  "overall_score": 0-100,
  "depth_reasoning": "...",
  "thinking_reasoning": "...",
  "fit_reasoning": "...",
  "red_flags": [],
  "key_strengths": [],
  "suggested_follow_up": "..."
}`

// OpeningLine builds the interviewer's first spoken line from the candidate
// profile.
func OpeningLine(profile interview.CandidateProfile) string {
	name := profile.DisplayName()
	if strings.TrimSpace(profile.Name) == "" {
		return "Hello! Thank you for joining this interview. Shall we begin?"
	}
	if strings.TrimSpace(profile.KeyProject) != "" {
		return fmt.Sprintf("Hi %s, thanks for joining! I saw you worked on %s. Can you walk me through that experience?", name, profile.KeyProject)
	}
	return fmt.Sprintf("Hi %s, thanks for joining. Tell me about a recent project you're proud of.", name)
}
