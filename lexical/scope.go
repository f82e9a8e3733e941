package lexical

import (
	"fmt"

	"github.com/poiesic/talentmatch/core"
)

// Scope selects the corpus a lexical query runs against.
type Scope int

const (
	// ScopeJobs is the corpus of active job postings.
	ScopeJobs Scope = iota + 1
	// ScopeCandidates is the corpus of candidate profiles.
	ScopeCandidates
)

func (s Scope) String() string {
	switch s {
	case ScopeJobs:
		return "jobs"
	case ScopeCandidates:
		return "candidates"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeJobs || s == ScopeCandidates
}

// ScopeFor returns the corpus searched when matching in direction.
func ScopeFor(direction core.Direction) (Scope, error) {
	switch direction {
	case core.CandidateToJobs:
		return ScopeJobs, nil
	case core.JobToCandidates:
		return ScopeCandidates, nil
	}
	return 0, fmt.Errorf("%w: %d", core.ErrInvalidDirection, direction)
}
