// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateCandidate validates a CandidateProfile according to domain rules.
//
// Validation rules:
//   - At least one of headline, summary, resume text or skills must be present
//   - ExperienceYears and ExperienceEntries must not be negative
//   - Education must be a known level
//   - SalaryExpectation, when present, must be positive
//
// NOT validated (populated by processors):
//   - Vector (can be empty until embedding runs)
//   - ID (0 is valid from database sequences)
func ValidateCandidate(candidate *CandidateProfile) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if candidate.SearchText() == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyProfile)
	}

	if candidate.ExperienceYears < 0 || candidate.ExperienceEntries < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrNegativeExperience)
	}

	if err := ValidateEducationLevel(candidate.Education); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}

	if candidate.SalaryExpectation != nil && !positiveAmount(*candidate.SalaryExpectation) {
		return fmt.Errorf("%w: %w: expectation %.2f", ErrInvalidCandidate, ErrInvalidSalary, *candidate.SalaryExpectation)
	}

	return nil
}

// ValidateJob validates a JobPosting according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - RequiredExperienceYears must not be negative
//   - RequiredEducation must be a known level
//   - Status must be active or inactive
//   - Salary bounds, when present, must be positive and max must not be below min
func ValidateJob(job *JobPosting) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if strings.TrimSpace(job.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyTitle)
	}

	if job.RequiredExperienceYears < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrNegativeExperience)
	}

	if err := ValidateEducationLevel(job.RequiredEducation); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.Status != JobStatusActive && job.Status != JobStatusInactive {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidJob, ErrInvalidJobStatus, job.Status)
	}

	if job.Salary.Min != nil && !positiveAmount(*job.Salary.Min) {
		return fmt.Errorf("%w: %w: min %.2f", ErrInvalidJob, ErrInvalidSalary, *job.Salary.Min)
	}
	if job.Salary.Max != nil && !positiveAmount(*job.Salary.Max) {
		return fmt.Errorf("%w: %w: max %.2f", ErrInvalidJob, ErrInvalidSalary, *job.Salary.Max)
	}
	if job.Salary.Min != nil && job.Salary.Max != nil && *job.Salary.Max < *job.Salary.Min {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrInvalidSalaryRange)
	}

	return nil
}

// positiveAmount reports whether v is a finite amount above zero.
func positiveAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ValidateEducationLevel validates that an EducationLevel is one of the known ordinals.
func ValidateEducationLevel(level EducationLevel) error {
	if level < EducationUnspecified || level > EducationDoctorate {
		return fmt.Errorf("%w: value %d", ErrInvalidEducation, level)
	}
	return nil
}

// ValidateDirection validates that a Direction has a valid value.
func ValidateDirection(direction Direction) error {
	if direction != CandidateToJobs && direction != JobToCandidates {
		return fmt.Errorf("%w: value %d", ErrInvalidDirection, direction)
	}
	return nil
}

// NormalizeCandidate cleans skill and certification lists in place.
func NormalizeCandidate(candidate *CandidateProfile) {
	candidate.Skills = NormalizeSkills(candidate.Skills)
	candidate.Certifications = NormalizeSkills(candidate.Certifications)
	candidate.Location = CleanText(candidate.Location)
}

// NormalizeJob cleans skill lists in place. A skill present in both the
// required and preferred lists is kept as required only.
func NormalizeJob(job *JobPosting) {
	job.RequiredSkills = NormalizeSkills(job.RequiredSkills)
	required := make(map[string]bool, len(job.RequiredSkills))
	for _, s := range job.RequiredSkills {
		required[strings.ToLower(s)] = true
	}

	preferred := NormalizeSkills(job.PreferredSkills)
	job.PreferredSkills = preferred[:0]
	for _, s := range preferred {
		if !required[strings.ToLower(s)] {
			job.PreferredSkills = append(job.PreferredSkills, s)
		}
	}

	job.RequiredCertifications = NormalizeSkills(job.RequiredCertifications)
	job.Location = CleanText(job.Location)
	if job.Status == 0 {
		job.Status = JobStatusActive
	}
}

// NormalizeSkills trims and collapses whitespace and drops empty entries and
// case-insensitive duplicates. The first spelling seen is kept.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = CleanText(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// CleanText trims s and collapses internal runs of whitespace to one space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
