// Package strategy renders a candidate profile into the personalization
// brief that steers the interviewer's questions. The builder is a pure data
// transform: no I/O, no retries, no failure modes.
package strategy

import (
	"fmt"
	"strings"

	"github.com/expertbridge/interviewer/pkg/interview"
)

const (
	seniorBand = `
-> SENIOR LEVEL (10+ years):
  - Focus on LEADERSHIP: "Tell me about a time you had to align conflicting stakeholders."
  - Focus on STRATEGY: "How do you decide between building internal tools vs buying?"
  - Focus on MENTORSHIP: "How do you elevate standard engineers to senior levels?"
  - ASSESS: Strategic thinking, business impact, organizational influence.
`
	midBand = `
-> MID LEVEL (5-10 years):
  - Focus on ARCHITECTURE: "Walk me through the system design of your last major project."
  - Focus on TRADE-OFFS: "Why did you choose that specific tech stack over alternatives?"
  - Focus on COLLABORATION: "How do you handle disagreements with product managers?"
  - ASSESS: Technical depth, system design, ownership.
`
	juniorBand = `
-> JUNIOR LEVEL (0-5 years):
  - Focus on EXECUTION: "Describe a bug that was hard to track down."
  - Focus on LEARNING: "What is a new technology you learned recently and how?"
  - Focus on FUNDAMENTALS: "Explain a core concept in your primary language."
  - ASSESS: Coding capability, debugging, curiosity.
`
)

var skillProbes = map[string]string{
	"M&A":                "- Probe: 'How do you validate synergies in the first 90 days of a deal?'",
	"Machine Learning":   "- Probe: 'How do you handle data drift in production models?'",
	"Financial Modeling": "- Probe: 'What are the most common circular reference errors you encounter?'",
	"Fundraising":        "- Probe: 'How do you structure the data room for Series B due diligence?'",
	"Product Management": "- Probe: 'Tell me about a feature you killed and why.'",
	"Sales":              "- Probe: 'How do you revive a deal that has gone dark?'",
	"Marketing":          "- Probe: 'What is your framework for attribution modeling?'",
	"Python":             "- Probe: 'Explain how you manage memory in long-running Python processes.'",
	"Java":               "- Probe: 'How do you tune the JVM for high-throughput applications?'",
	"AWS":                "- Probe: 'How do you design for failure in a multi-region architecture?'",
	"React":              "- Probe: 'How do you prevent unnecessary re-renders in large applications?'",
	"SQL":                "- Probe: 'How do you optimize a query performing a full table scan on millions of rows?'",
}

var industryContext = map[string]string{
	"FinTech":    "- Context: High consistency, regulatory compliance, zero data loss.",
	"SaaS":       "- Context: Scalability, multi-tenancy, churn reduction.",
	"Healthcare": "- Context: HIPAA compliance, data privacy, interoperability (HL7/FHIR).",
	"E-commerce": "- Context: High concurrency, conversion optimization, inventory management.",
	"Crypto":     "- Context: Trustless systems, gas optimization, security audits.",
	"Web3":       "- Context: Decentralization trade-offs, wallet integration.",
}

// Build renders the personalization brief for a candidate. The output is
// consumed as opaque prompt context by the dialogue controller.
func Build(profile interview.CandidateProfile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `EXPERT CONTEXT - USE THIS TO PERSONALIZE YOUR QUESTIONS:

Name: %s
Top Skills: %s
Industries: %s
Experience Level: %d years
Current Role: %s
`,
		profile.DisplayName(),
		strings.Join(profile.TopSkills, ", "),
		strings.Join(profile.Industries, ", "),
		profile.ExperienceYears,
		valueOr(profile.CurrentRole, "Expert"),
	)

	if len(profile.PastCompanies) > 0 {
		fmt.Fprintf(&sb, "Notable Companies: %s\n", strings.Join(profile.PastCompanies, ", "))
	}
	if strings.TrimSpace(profile.KeyProject) != "" {
		fmt.Fprintf(&sb, "\nKey Project: %s\n", profile.KeyProject)
	}
	if strings.TrimSpace(profile.KeyExperience) != "" {
		fmt.Fprintf(&sb, "\nKey Experience: %s\n", profile.KeyExperience)
	}

	sb.WriteString("\n--- PERSONALIZED QUESTION STRATEGY ---\n")
	switch {
	case profile.ExperienceYears >= 10:
		sb.WriteString(seniorBand)
	case profile.ExperienceYears >= 5:
		sb.WriteString(midBand)
	default:
		sb.WriteString(juniorBand)
	}

	sb.WriteString("\n-> SKILL-SPECIFIC PROBES (Select 1-2 relevant ones):\n")
	matched := false
	for _, skill := range profile.TopSkills {
		for key, probe := range skillProbes {
			if strings.Contains(strings.ToLower(skill), strings.ToLower(key)) {
				fmt.Fprintf(&sb, "  %s\n", probe)
				matched = true
			}
		}
	}
	if !matched {
		fmt.Fprintf(&sb, "  - Ask 1 deep technical question specific to: %s\n", strings.Join(profile.TopSkills, ", "))
	}

	sb.WriteString("\n-> INDUSTRY CONTEXT:\n")
	for _, industry := range profile.Industries {
		for key, context := range industryContext {
			if strings.Contains(strings.ToLower(industry), strings.ToLower(key)) {
				fmt.Fprintf(&sb, "  %s\n", context)
			}
		}
	}

	return sb.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
