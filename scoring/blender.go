// Package scoring blends retrieval and attribute signals into a final
// match score and quality bucket.
package scoring

import (
	"math"

	"github.com/poiesic/talentmatch/attributes"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/skills"
)

// Quality thresholds. A score on a boundary belongs to the higher bucket.
const (
	ExcellentThreshold = 0.85
	GoodThreshold      = 0.70
	FairThreshold      = 0.50
)

// Inputs are the per-pair signals consumed by Blend.
type Inputs struct {
	Lexical    float64
	Semantic   float64
	Skills     skills.Result
	Attributes attributes.Scores
}

// Breakdown is the outcome of Blend.
type Breakdown struct {
	// Hybrid may exceed 1 when the must-have bonus applies.
	Hybrid      float64
	Traditional float64
	// Final is clamped to [0,1].
	Final   float64
	Quality core.Quality
}

// Blender applies a fixed set of weights. It holds no mutable state and is
// safe for concurrent use.
type Blender struct {
	weights Weights
}

// NewBlender validates weights and returns a Blender using a copy of them.
func NewBlender(weights Weights) (*Blender, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Blender{weights: weights}, nil
}

// Weights returns the weights in use.
func (b *Blender) Weights() Weights {
	return b.weights
}

// Blend computes the hybrid, traditional and final scores of one pair.
func (b *Blender) Blend(in Inputs) Breakdown {
	h, t, f := b.weights.Hybrid, b.weights.Traditional, b.weights.Final

	hybrid := h.Lexical*in.Lexical + h.Semantic*in.Semantic + h.Skills*in.Skills.Overlap
	if in.Skills.MustHaveCompliance {
		hybrid += h.MustHaveBonus
	}

	a := in.Attributes
	traditional := t.Skills*in.Skills.Overlap +
		t.Experience*a.Experience/100 +
		t.Education*a.Education/100 +
		t.Location*a.Location/100 +
		t.Salary*a.Salary/100 +
		t.Certifications*a.Certification/100

	final := clamp01(f.Hybrid*hybrid + f.Traditional*traditional)

	return Breakdown{
		Hybrid:      hybrid,
		Traditional: traditional,
		Final:       final,
		Quality:     QualityFor(final),
	}
}

// QualityFor buckets a final score.
func QualityFor(final float64) core.Quality {
	switch {
	case final >= ExcellentThreshold:
		return core.QualityExcellent
	case final >= GoodThreshold:
		return core.QualityGood
	case final >= FairThreshold:
		return core.QualityFair
	}
	return core.QualityPoor
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
