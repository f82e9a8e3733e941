package storage

import (
	"testing"
	"time"

	"github.com/poiesic/talentmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	for _, id := range []core.ID{0, 42, core.ID(18446744073709551615), core.IDFromContent("resume")} {
		decoded, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestCandidateEncoding_OptionalFields(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	expectation := 120000.0

	withSalary := &core.CandidateProfile{
		Id:                7,
		Headline:          "Staff engineer",
		Skills:            []string{"Go", "Kafka"},
		ExperienceYears:   11,
		Education:         core.EducationMaster,
		Certifications:    []string{"CKA"},
		RemotePreference:  true,
		SalaryExpectation: &expectation,
		Vector:            []float32{0.25, -0.5},
		InsertedAt:        now,
		UpdatedAt:         now,
	}
	decoded, err := UnmarshalCandidate(MarshalCandidate(withSalary))
	require.NoError(t, err)
	assert.Equal(t, withSalary, decoded)

	withoutSalary := &core.CandidateProfile{Id: 8, Headline: "Junior"}
	decoded, err = UnmarshalCandidate(MarshalCandidate(withoutSalary))
	require.NoError(t, err)
	assert.Nil(t, decoded.SalaryExpectation)
	assert.Nil(t, decoded.Skills)
	assert.True(t, decoded.InsertedAt.IsZero())
}

func TestJobEncoding_OpenEndedSalary(t *testing.T) {
	min := 90000.0
	job := &core.JobPosting{
		Id:              3,
		Title:           "SRE",
		RequiredSkills:  []string{"Linux"},
		PreferredSkills: []string{"Terraform"},
		Salary:          core.SalaryRange{Min: &min},
		Status:          core.JobStatusInactive,
	}

	decoded, err := UnmarshalJob(MarshalJob(job))
	require.NoError(t, err)
	require.NotNil(t, decoded.Salary.Min)
	assert.Equal(t, min, *decoded.Salary.Min)
	assert.Nil(t, decoded.Salary.Max)
	assert.Equal(t, core.JobStatusInactive, decoded.Status)
	assert.False(t, decoded.IsActive())
}

func TestMatchEncoding(t *testing.T) {
	match := &core.MatchResult{
		CandidateId:        1,
		JobId:              2,
		Direction:          core.JobToCandidates,
		Lexical:            0.8,
		Semantic:           0.5,
		SkillOverlap:       1.0 / 3.0,
		Hybrid:             0.6,
		Traditional:        0.7,
		Final:              0.63,
		Quality:            core.QualityFair,
		MatchedSkills:      []string{"python"},
		MissingSkills:      []string{"aws"},
		Experience:         50,
		Salary:             80,
		Certification:      100,
		ExperienceGap:      -2,
		SalaryGap:          -5000,
		ComputedAt:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	decoded, err := UnmarshalMatch(MarshalMatch(match))
	require.NoError(t, err)
	assert.Equal(t, match, decoded)
}

func TestMatchEncoding_MicrosecondTimestamps(t *testing.T) {
	computed := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))

	decoded, err := UnmarshalMatch(MarshalMatch(&core.MatchResult{
		CandidateId: 1, JobId: 2, Direction: core.CandidateToJobs, ComputedAt: computed,
	}))
	require.NoError(t, err)
	assert.True(t, computed.Truncate(time.Microsecond).Equal(decoded.ComputedAt))
	assert.Equal(t, 123456000, decoded.ComputedAt.Nanosecond())
	assert.Equal(t, time.UTC, decoded.ComputedAt.Location())
}

func TestUnmarshal_TruncatedData(t *testing.T) {
	data := MarshalJob(&core.JobPosting{Id: 1, Title: "Engineer", RequiredSkills: []string{"go", "sql"}})

	_, err := UnmarshalJob(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
