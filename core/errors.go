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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCandidate indicates a CandidateProfile failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate profile")

	// ErrInvalidJob indicates a JobPosting failed validation.
	ErrInvalidJob = errors.New("invalid job posting")

	// ErrNegativeExperience indicates an experience figure below zero.
	ErrNegativeExperience = errors.New("experience cannot be negative")

	// ErrInvalidSalary indicates a salary value that is zero or negative.
	ErrInvalidSalary = errors.New("salary must be positive")

	// ErrInvalidSalaryRange indicates a salary range whose max is below its min.
	ErrInvalidSalaryRange = errors.New("salary max cannot be below min")

	// ErrInvalidEducation indicates an education level outside the known ordinals.
	ErrInvalidEducation = errors.New("invalid education level")

	// ErrInvalidJobStatus indicates an unknown job status.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrEmptyTitle indicates a job posting without a title.
	ErrEmptyTitle = errors.New("job title cannot be empty")

	// ErrEmptyProfile indicates a candidate without any searchable text or skills.
	ErrEmptyProfile = errors.New("candidate profile has no content")

	// ErrInvalidDirection indicates an unknown match direction.
	ErrInvalidDirection = errors.New("invalid match direction")
)
