package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/talentmatch/core"
	"gopkg.in/yaml.v3"
)

// corpusFile is the layout read by the import command.
type corpusFile struct {
	Candidates []candidateEntry `yaml:"candidates"`
	Jobs       []jobEntry       `yaml:"jobs"`
}

type candidateEntry struct {
	ID                uint64   `yaml:"id"`
	Headline          string   `yaml:"headline"`
	Summary           string   `yaml:"summary"`
	Resume            string   `yaml:"resume"`
	Skills            []string `yaml:"skills"`
	ExperienceYears   int      `yaml:"experience_years"`
	Education         string   `yaml:"education"`
	Certifications    []string `yaml:"certifications"`
	Location          string   `yaml:"location"`
	Remote            bool     `yaml:"remote"`
	SalaryExpectation *float64 `yaml:"salary_expectation"`
}

type jobEntry struct {
	ID                     uint64   `yaml:"id"`
	Title                  string   `yaml:"title"`
	Description            string   `yaml:"description"`
	Requirements           string   `yaml:"requirements"`
	Responsibilities       string   `yaml:"responsibilities"`
	RequiredSkills         []string `yaml:"required_skills"`
	PreferredSkills        []string `yaml:"preferred_skills"`
	ExperienceYears        int      `yaml:"experience_years"`
	Education              string   `yaml:"education"`
	RequiredCertifications []string `yaml:"required_certifications"`
	Location               string   `yaml:"location"`
	Remote                 bool     `yaml:"remote"`
	SalaryMin              *float64 `yaml:"salary_min"`
	SalaryMax              *float64 `yaml:"salary_max"`
	Status                 string   `yaml:"status"`
}

func readCorpus(path string) (*corpusFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var corpus corpusFile
	if err := yaml.Unmarshal(b, &corpus); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &corpus, nil
}

func (e candidateEntry) toCandidate() *core.CandidateProfile {
	return &core.CandidateProfile{
		Id:                core.ID(e.ID),
		Headline:          e.Headline,
		Summary:           e.Summary,
		ResumeText:        e.Resume,
		Skills:            e.Skills,
		ExperienceYears:   e.ExperienceYears,
		Education:         core.ParseEducationLevel(e.Education),
		Certifications:    e.Certifications,
		Location:          e.Location,
		RemotePreference:  e.Remote,
		SalaryExpectation: e.SalaryExpectation,
	}
}

func (e jobEntry) toJob() (*core.JobPosting, error) {
	status := core.JobStatusActive
	switch strings.ToLower(strings.TrimSpace(e.Status)) {
	case "", "active", "open":
	case "inactive", "closed":
		status = core.JobStatusInactive
	default:
		return nil, fmt.Errorf("job %q: unknown status %q", e.Title, e.Status)
	}

	return &core.JobPosting{
		Id:                      core.ID(e.ID),
		Title:                   e.Title,
		Description:             e.Description,
		Requirements:            e.Requirements,
		Responsibilities:        e.Responsibilities,
		RequiredSkills:          e.RequiredSkills,
		PreferredSkills:         e.PreferredSkills,
		RequiredExperienceYears: e.ExperienceYears,
		RequiredEducation:       core.ParseEducationLevel(e.Education),
		RequiredCertifications:  e.RequiredCertifications,
		Location:                e.Location,
		Remote:                  e.Remote,
		Salary:                  core.SalaryRange{Min: e.SalaryMin, Max: e.SalaryMax},
		Status:                  status,
	}, nil
}
