package core

import (
	"cmp"
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EducationLevel is an ordinal education rank. Higher values outrank lower ones.
type EducationLevel int

const (
	// EducationUnspecified means no level was given. As a job requirement it is always met.
	EducationUnspecified EducationLevel = iota
	EducationHighSchool
	EducationAssociate
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

var educationNames = map[EducationLevel]string{
	EducationUnspecified: "unspecified",
	EducationHighSchool:  "high_school",
	EducationAssociate:   "associate",
	EducationBachelor:    "bachelor",
	EducationMaster:      "master",
	EducationDoctorate:   "doctorate",
}

func (e EducationLevel) String() string {
	if name, ok := educationNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEducationLevel maps common spellings of a degree to an EducationLevel.
// Unrecognized or empty input yields EducationUnspecified.
func ParseEducationLevel(s string) EducationLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("'", "", "’", "", ".", "", "-", " ", "_", " ").Replace(s)
	switch {
	case s == "":
		return EducationUnspecified
	case strings.Contains(s, "phd"), strings.Contains(s, "doctor"), strings.Contains(s, "doctorate"):
		return EducationDoctorate
	case strings.Contains(s, "master"), s == "msc", s == "ms", s == "ma", s == "mba", s == "meng":
		return EducationMaster
	case strings.Contains(s, "bachelor"), s == "bsc", s == "bs", s == "ba", s == "beng":
		return EducationBachelor
	case strings.Contains(s, "associate"):
		return EducationAssociate
	case strings.Contains(s, "high school"), strings.Contains(s, "secondary"), s == "ged":
		return EducationHighSchool
	}
	return EducationUnspecified
}

// Direction selects which side of a match is the query entity.
type Direction int

const (
	// CandidateToJobs ranks active jobs for a candidate.
	CandidateToJobs Direction = iota + 1
	// JobToCandidates ranks candidates for a job.
	JobToCandidates
)

func (d Direction) String() string {
	switch d {
	case CandidateToJobs:
		return "candidate_to_jobs"
	case JobToCandidates:
		return "job_to_candidates"
	}
	return "unknown"
}

// JobStatus is the lifecycle state of a posting. Only active postings are matchable.
type JobStatus int

const (
	JobStatusActive JobStatus = iota + 1
	JobStatusInactive
)

// CandidateProfile is a structured candidate record.
type CandidateProfile struct {
	Id                ID
	Headline          string
	Summary           string
	ResumeText        string
	Skills            []string
	ExperienceYears   int
	ExperienceEntries int // Number of listed positions; fallback when ExperienceYears is unknown
	Education         EducationLevel
	Certifications    []string
	Location          string
	RemotePreference  bool
	SalaryExpectation *float64
	Vector            []float32 // Embedding of SearchText (populated by ingestion)
	InsertedAt        time.Time // Stored at microsecond precision, like UpdatedAt
	UpdatedAt         time.Time
}

// EffectiveExperienceYears returns the stated years, or the count of listed
// positions when no years were stated.
func (c *CandidateProfile) EffectiveExperienceYears() int {
	if c.ExperienceYears == 0 && c.ExperienceEntries > 0 {
		return c.ExperienceEntries
	}
	return c.ExperienceYears
}

// SearchText returns the text used for both lexical indexing and embedding.
func (c *CandidateProfile) SearchText() string {
	return joinText(c.Headline, c.Summary, c.ResumeText, strings.Join(c.Skills, " "))
}

// SalaryRange is an optional compensation band. A nil bound is absent.
type SalaryRange struct {
	Min *float64
	Max *float64
}

// JobPosting is a structured job record.
type JobPosting struct {
	Id                      ID
	Title                   string
	Description             string
	Requirements            string
	Responsibilities        string
	RequiredSkills          []string
	PreferredSkills         []string
	RequiredExperienceYears int
	RequiredEducation       EducationLevel
	RequiredCertifications  []string
	Location                string
	Remote                  bool
	Salary                  SalaryRange
	Status                  JobStatus
	Vector                  []float32
	InsertedAt              time.Time // Stored at microsecond precision, like UpdatedAt
	UpdatedAt               time.Time
}

// IsActive reports whether the posting can take part in matching.
func (j *JobPosting) IsActive() bool {
	return j.Status == JobStatusActive
}

// SearchText returns the text used for both lexical indexing and embedding.
func (j *JobPosting) SearchText() string {
	return joinText(j.Title, j.Description, j.Requirements, j.Responsibilities,
		strings.Join(j.RequiredSkills, " "), strings.Join(j.PreferredSkills, " "))
}

// Quality is a coarse bucket derived from the final score.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// MatchKey identifies a persisted match. Writes with the same key replace each other.
type MatchKey struct {
	CandidateId ID
	JobId       ID
	Direction   Direction
}

// MatchResult is the scored outcome of one candidate/job pair.
type MatchResult struct {
	CandidateId        ID
	JobId              ID
	Direction          Direction
	Lexical            float64
	Semantic           float64
	SkillOverlap       float64
	Hybrid             float64
	Traditional        float64
	Final              float64
	Quality            Quality
	MatchedSkills      []string
	MissingSkills      []string
	MustHaveCompliance bool
	Experience         float64 // Attribute sub-scores, each in [0,100]
	Education          float64
	Location           float64
	Salary             float64
	Certification      float64
	ExperienceGap      int     // Candidate years minus required years
	SalaryGap          float64 // Signed distance from the acceptable band; 0 when inside or unknown
	ComputedAt         time.Time // Stored at microsecond precision in UTC
}

// Key returns the persistence key of the result.
func (m *MatchResult) Key() MatchKey {
	return MatchKey{CandidateId: m.CandidateId, JobId: m.JobId, Direction: m.Direction}
}

// QueryID returns the id of the query entity for the result's direction.
func (m *MatchResult) QueryID() ID {
	if m.Direction == JobToCandidates {
		return m.JobId
	}
	return m.CandidateId
}

// DocumentID returns the id of the ranked entity for the result's direction.
func (m *MatchResult) DocumentID() ID {
	if m.Direction == JobToCandidates {
		return m.CandidateId
	}
	return m.JobId
}

func joinText(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// CompareRank orders results by final score descending, then skill overlap
// descending, then document id ascending. It is suitable for slices.SortFunc.
func CompareRank(a, b *MatchResult) int {
	switch {
	case a.Final > b.Final:
		return -1
	case a.Final < b.Final:
		return 1
	case a.SkillOverlap > b.SkillOverlap:
		return -1
	case a.SkillOverlap < b.SkillOverlap:
		return 1
	}
	return cmp.Compare(a.DocumentID(), b.DocumentID())
}
