package interview

import "strings"

// CandidateProfile is supplied once at session start and treated as read-only
// for the lifetime of the session.
type CandidateProfile struct {
	Name            string   `mapstructure:"name"`
	CurrentRole     string   `mapstructure:"current_role"`
	ExperienceYears int      `mapstructure:"experience_years"`
	TopSkills       []string `mapstructure:"top_skills"`
	Industries      []string `mapstructure:"industries"`
	PastCompanies   []string `mapstructure:"past_companies"`
	KeyProject      string   `mapstructure:"key_project"`
	KeyExperience   string   `mapstructure:"key_experience"`
}

// DisplayName returns the candidate name or a generic fallback.
func (p CandidateProfile) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Candidate"
	}
	return p.Name
}
