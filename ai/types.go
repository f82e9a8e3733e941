package ai

import (
	"strings"

	"github.com/poiesic/talentmatch/core"
)

// ExtractedProfile is the structured answer an extractor produces for a resume.
// Field names follow the JSON document requested from language models.
type ExtractedProfile struct {
	Headline          string   `json:"headline"`
	Summary           string   `json:"summary"`
	Skills            []string `json:"skills"`
	ExperienceYears   int      `json:"experience_years"`
	ExperienceEntries int      `json:"experience_entries"`
	Education         string   `json:"education"`
	Certifications    []string `json:"certifications"`
	Location          string   `json:"location"`
	RemotePreference  bool     `json:"remote_preference"`
	SalaryExpectation *float64 `json:"salary_expectation"`
}

// ToCandidate converts the extraction into a normalized candidate profile.
// Out-of-range figures from the model are dropped rather than rejected.
func (p *ExtractedProfile) ToCandidate(resumeText string) *core.CandidateProfile {
	candidate := &core.CandidateProfile{
		Headline:          strings.TrimSpace(p.Headline),
		Summary:           strings.TrimSpace(p.Summary),
		ResumeText:        resumeText,
		Skills:            p.Skills,
		ExperienceYears:   max(p.ExperienceYears, 0),
		ExperienceEntries: max(p.ExperienceEntries, 0),
		Education:         core.ParseEducationLevel(p.Education),
		Certifications:    p.Certifications,
		Location:          p.Location,
		RemotePreference:  p.RemotePreference,
	}
	if p.SalaryExpectation != nil && *p.SalaryExpectation > 0 {
		salary := *p.SalaryExpectation
		candidate.SalaryExpectation = &salary
	}
	core.NormalizeCandidate(candidate)
	return candidate
}
