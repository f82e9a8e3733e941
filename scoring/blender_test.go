package scoring

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/poiesic/talentmatch/attributes"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultBlender(t *testing.T) *Blender {
	t.Helper()
	b, err := NewBlender(DefaultWeights())
	require.NoError(t, err)
	return b
}

func perfectAttributes() attributes.Scores {
	return attributes.Scores{Experience: 100, Education: 100, Location: 100, Salary: 100, Certification: 100}
}

func TestBlend_Formula(t *testing.T) {
	b := newDefaultBlender(t)

	got := b.Blend(Inputs{
		Lexical:  0.8,
		Semantic: 0.6,
		Skills:   skills.Result{Overlap: 0.5, MustHaveCompliance: false},
		Attributes: attributes.Scores{
			Experience: 70, Education: 100, Location: 50, Salary: 80, Certification: 0,
		},
	})

	hybrid := 0.5*0.8 + 0.4*0.6 + 0.1*0.5
	traditional := 0.35*0.5 + 0.25*0.7 + 0.15*1 + 0.10*0.5 + 0.05*0.8 + 0.10*0
	assert.InDelta(t, hybrid, got.Hybrid, 1e-12)
	assert.InDelta(t, traditional, got.Traditional, 1e-12)
	assert.InDelta(t, 0.7*hybrid+0.3*traditional, got.Final, 1e-12)
	assert.Equal(t, QualityFor(got.Final), got.Quality)
}

func TestBlend_MustHaveBonusMayExceedOneButFinalClamps(t *testing.T) {
	b := newDefaultBlender(t)

	got := b.Blend(Inputs{
		Lexical:    1,
		Semantic:   1,
		Skills:     skills.Result{Overlap: 1, MustHaveCompliance: true},
		Attributes: perfectAttributes(),
	})

	assert.InDelta(t, 1.1, got.Hybrid, 1e-12)
	assert.InDelta(t, 1.0, got.Traditional, 1e-12)
	assert.Equal(t, 1.0, got.Final)
	assert.Equal(t, core.QualityExcellent, got.Quality)
}

func TestBlend_FinalAlwaysInUnitInterval(t *testing.T) {
	b := newDefaultBlender(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 1000 {
		in := Inputs{
			Lexical:  rng.Float64()*3 - 1,
			Semantic: rng.Float64()*3 - 1,
			Skills:   skills.Result{Overlap: rng.Float64(), MustHaveCompliance: rng.IntN(2) == 0},
			Attributes: attributes.Scores{
				Experience:    rng.Float64() * 150,
				Education:     rng.Float64() * 150,
				Location:      rng.Float64() * 150,
				Salary:        rng.Float64() * 150,
				Certification: rng.Float64() * 150,
			},
		}
		got := b.Blend(in)
		assert.GreaterOrEqual(t, got.Final, 0.0)
		assert.LessOrEqual(t, got.Final, 1.0)
	}

	got := b.Blend(Inputs{Lexical: math.NaN()})
	assert.Equal(t, 0.0, got.Final)
	assert.Equal(t, core.QualityPoor, got.Quality)
}

func TestBlend_Deterministic(t *testing.T) {
	b := newDefaultBlender(t)
	in := Inputs{Lexical: 0.37, Semantic: 0.81, Skills: skills.Result{Overlap: 1.0 / 3.0}, Attributes: perfectAttributes()}

	first := b.Blend(in)
	for range 10 {
		assert.Equal(t, first, b.Blend(in))
	}
}

func TestQualityFor_Boundaries(t *testing.T) {
	assert.Equal(t, core.QualityExcellent, QualityFor(0.85))
	assert.Equal(t, core.QualityGood, QualityFor(0.8499))
	assert.Equal(t, core.QualityGood, QualityFor(0.70))
	assert.Equal(t, core.QualityFair, QualityFor(0.6999))
	assert.Equal(t, core.QualityFair, QualityFor(0.50))
	assert.Equal(t, core.QualityPoor, QualityFor(0.4999))
	assert.Equal(t, core.QualityPoor, QualityFor(0))
}

func TestNewBlender_CopiesWeights(t *testing.T) {
	w := DefaultWeights()
	b, err := NewBlender(w)
	require.NoError(t, err)

	w.Final.Hybrid = 0
	assert.Equal(t, 0.70, b.Weights().Final.Hybrid)
}

func TestNewBlender_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Final = FinalWeights{Hybrid: 0, Traditional: 1}
	b, err := NewBlender(w)
	require.NoError(t, err)

	got := b.Blend(Inputs{Lexical: 1, Semantic: 1, Skills: skills.Result{Overlap: 0}})
	assert.Equal(t, 0.0, got.Final, "only the traditional score counts")
}
