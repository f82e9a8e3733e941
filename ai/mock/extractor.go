package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
)

// knownSkills drives the default extraction.
var knownSkills = []string{
	"go", "python", "java", "javascript", "typescript", "rust", "sql",
	"postgres", "kafka", "docker", "kubernetes", "aws", "gcp", "terraform",
	"react", "django", "spark",
}

// MockProfileExtractor is a test double for ai.ProfileExtractor.
type MockProfileExtractor struct {
	// ExtractProfileFunc is called by ExtractProfile if set.
	ExtractProfileFunc func(ctx context.Context, text string) (*core.CandidateProfile, error)

	callCount atomic.Int64
}

// NewMockProfileExtractor creates a mock extractor with default behavior.
func NewMockProfileExtractor() *MockProfileExtractor {
	return &MockProfileExtractor{}
}

// ExtractProfile picks known skill keywords out of text. The first line
// becomes the headline. Empty text fails with ai.ErrExtraction.
func (m *MockProfileExtractor) ExtractProfile(ctx context.Context, text string) (*core.CandidateProfile, error) {
	m.callCount.Add(1)

	if m.ExtractProfileFunc != nil {
		return m.ExtractProfileFunc(ctx, text)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ai.ErrExtraction
	}

	extracted := &ai.ExtractedProfile{}
	extracted.Headline, _, _ = strings.Cut(text, "\n")

	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[strings.Trim(w, ".,;:()")] = true
	}
	for _, skill := range knownSkills {
		if words[skill] {
			extracted.Skills = append(extracted.Skills, skill)
		}
	}

	return extracted.ToCandidate(text), nil
}

// CallCount returns the number of times ExtractProfile was called.
func (m *MockProfileExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockProfileExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractProfileFunc = nil
}
