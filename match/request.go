package match

import (
	"fmt"
	"math"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
)

// Request defaults.
const (
	DefaultLimit    = 20
	DefaultMinScore = 0.60
)

// Defaults are the request values used when a caller does not override them.
type Defaults struct {
	Limit     int
	MinScore  float64
	Shortlist int
}

// DefaultDefaults returns the engine's built-in request defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Limit:     DefaultLimit,
		MinScore:  DefaultMinScore,
		Shortlist: lexical.DefaultShortlist,
	}
}

func (d Defaults) validate() error {
	if d.Limit < 1 || d.Shortlist < 1 || !validScore(d.MinScore) {
		return fmt.Errorf("%w: limit=%d min_score=%v shortlist=%d",
			ErrInvalidDefaults, d.Limit, d.MinScore, d.Shortlist)
	}
	return nil
}

// Request describes one invocation. Every field is explicit; use
// Engine.NewRequest to start from the engine defaults.
type Request struct {
	QueryID   core.ID
	Direction core.Direction

	// Limit is the maximum number of results returned (>= 1).
	Limit int

	// MinScore drops results whose final score is below it. It lies in [0,1].
	MinScore float64

	// Shortlist bounds the lexical retrieval (>= 1).
	Shortlist int

	// DryRun skips persistence.
	DryRun bool
}

// RequestOption adjusts a Request built by Engine.NewRequest.
type RequestOption func(*Request)

// WithLimit sets the maximum number of results.
func WithLimit(limit int) RequestOption {
	return func(r *Request) { r.Limit = limit }
}

// WithMinScore sets the final score threshold.
func WithMinScore(minScore float64) RequestOption {
	return func(r *Request) { r.MinScore = minScore }
}

// WithShortlist sets the lexical shortlist bound.
func WithShortlist(shortlist int) RequestOption {
	return func(r *Request) { r.Shortlist = shortlist }
}

// WithDryRun computes results without persisting them.
func WithDryRun() RequestOption {
	return func(r *Request) { r.DryRun = true }
}

func (r Request) validate() error {
	const op = "validate request"
	if err := core.ValidateDirection(r.Direction); err != nil {
		return newError(KindInvalidInput, op, err)
	}
	if r.QueryID == 0 {
		return invalidInput(op, "query id is required")
	}
	if r.Limit < 1 {
		return invalidInput(op, "limit must be at least 1, got %d", r.Limit)
	}
	if !validScore(r.MinScore) {
		return invalidInput(op, "min score must lie in [0,1], got %v", r.MinScore)
	}
	if r.Shortlist < 1 {
		return invalidInput(op, "shortlist must be at least 1, got %d", r.Shortlist)
	}
	return nil
}

func validScore(s float64) bool {
	return !math.IsNaN(s) && s >= 0 && s <= 1
}
