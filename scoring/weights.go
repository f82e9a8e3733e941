package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// HybridWeights combine the retrieval signals.
type HybridWeights struct {
	Lexical       float64 `yaml:"lexical"`
	Semantic      float64 `yaml:"semantic"`
	Skills        float64 `yaml:"skills"`
	MustHaveBonus float64 `yaml:"must_have_bonus"`
}

// TraditionalWeights combine the attribute sub-scores.
type TraditionalWeights struct {
	Skills         float64 `yaml:"skills"`
	Experience     float64 `yaml:"experience"`
	Education      float64 `yaml:"education"`
	Location       float64 `yaml:"location"`
	Salary         float64 `yaml:"salary"`
	Certifications float64 `yaml:"certifications"`
}

// FinalWeights combine the two composite scores.
type FinalWeights struct {
	Hybrid      float64 `yaml:"hybrid"`
	Traditional float64 `yaml:"traditional"`
}

// Weights configures a Blender. Values are copied into the Blender at
// construction, so one Weights value can serve many tenants or experiments.
type Weights struct {
	Hybrid      HybridWeights      `yaml:"hybrid"`
	Traditional TraditionalWeights `yaml:"traditional"`
	Final       FinalWeights       `yaml:"final"`
}

// DefaultWeights returns the standard weighting. The traditional weights sum to 1.
func DefaultWeights() Weights {
	return Weights{
		Hybrid: HybridWeights{
			Lexical:       0.50,
			Semantic:      0.40,
			Skills:        0.10,
			MustHaveBonus: 0.10,
		},
		Traditional: TraditionalWeights{
			Skills:         0.35,
			Experience:     0.25,
			Education:      0.15,
			Location:       0.10,
			Salary:         0.05,
			Certifications: 0.10,
		},
		Final: FinalWeights{
			Hybrid:      0.70,
			Traditional: 0.30,
		},
	}
}

// Validate rejects negative or non-finite weights and groups whose weights
// are all zero. The must-have bonus may be zero.
func (w Weights) Validate() error {
	groups := []struct {
		name   string
		values map[string]float64
	}{
		{"hybrid", map[string]float64{
			"lexical": w.Hybrid.Lexical, "semantic": w.Hybrid.Semantic, "skills": w.Hybrid.Skills,
		}},
		{"traditional", map[string]float64{
			"skills": w.Traditional.Skills, "experience": w.Traditional.Experience,
			"education": w.Traditional.Education, "location": w.Traditional.Location,
			"salary": w.Traditional.Salary, "certifications": w.Traditional.Certifications,
		}},
		{"final", map[string]float64{
			"hybrid": w.Final.Hybrid, "traditional": w.Final.Traditional,
		}},
	}

	for _, g := range groups {
		sum := 0.0
		for name, v := range g.values {
			if err := checkWeight(g.name+"."+name, v); err != nil {
				return err
			}
			sum += v
		}
		if sum == 0 {
			return fmt.Errorf("%w: all %s weights are zero", ErrInvalidWeights, g.name)
		}
	}
	return checkWeight("hybrid.must_have_bonus", w.Hybrid.MustHaveBonus)
}

func checkWeight(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s = %v", ErrInvalidWeights, name, v)
	}
	return nil
}

// LoadWeights reads a YAML weights file. Fields absent from the file keep
// their default values.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, err
	}
	return ParseWeights(data)
}

// ParseWeights decodes YAML weights over the defaults and validates them.
func ParseWeights(data []byte) (Weights, error) {
	w := DefaultWeights()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
