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


package storage

import (
	"fmt"

	"github.com/poiesic/talentmatch/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalCandidate serializes a CandidateProfile to bytes.
func MarshalCandidate(candidate *core.CandidateProfile) []byte {
	buf := make([]byte, core.CandidateProfileMUS.Size(*candidate))
	core.CandidateProfileMUS.Marshal(*candidate, buf)
	return buf
}

// UnmarshalCandidate deserializes a CandidateProfile from bytes.
func UnmarshalCandidate(data []byte) (*core.CandidateProfile, error) {
	candidate, _, err := core.CandidateProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &candidate, nil
}

// MarshalJob serializes a JobPosting to bytes.
func MarshalJob(job *core.JobPosting) []byte {
	buf := make([]byte, core.JobPostingMUS.Size(*job))
	core.JobPostingMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalJob deserializes a JobPosting from bytes.
func UnmarshalJob(data []byte) (*core.JobPosting, error) {
	job, _, err := core.JobPostingMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &job, nil
}

// MarshalMatch serializes a MatchResult to bytes.
func MarshalMatch(match *core.MatchResult) []byte {
	buf := make([]byte, core.MatchResultMUS.Size(*match))
	core.MatchResultMUS.Marshal(*match, buf)
	return buf
}

// UnmarshalMatch deserializes a MatchResult from bytes.
func UnmarshalMatch(data []byte) (*core.MatchResult, error) {
	match, _, err := core.MatchResultMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &match, nil
}
