package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel answers GenerateContent with queued responses.
type scriptedModel struct {
	responses []string
	err       error
	calls     int
}

func (m *scriptedModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	content := m.responses[min(m.calls-1, len(m.responses)-1)]
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func newTestExtractor(model llms.Model) *ProfileExtractor {
	return &ProfileExtractor{client: model, maxChars: 1000, logger: slog.Default()}
}

func TestExtractProfile_ParsesFencedJSON(t *testing.T) {
	model := &scriptedModel{responses: []string{"```json\n" + `{
		"headline": "Data Engineer",
		"skills": ["Python", "Spark", "python"],
		"experience_years": 4,
		"education": "bachelor",
		"certifications": [],
		"location": "Austin, TX",
		"remote_preference": false,
		"salary_expectation": 110000
	}` + "\n```"}}

	profile, err := newTestExtractor(model).ExtractProfile(context.Background(), "resume body")
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer", profile.Headline)
	assert.Equal(t, []string{"Python", "Spark"}, profile.Skills)
	assert.Equal(t, 4, profile.ExperienceYears)
	assert.Equal(t, core.EducationBachelor, profile.Education)
	assert.Equal(t, "resume body", profile.ResumeText)
	require.NotNil(t, profile.SalaryExpectation)
	assert.Equal(t, 110000.0, *profile.SalaryExpectation)
	assert.Equal(t, 1, model.calls)
}

func TestExtractProfile_RetriesMalformedJSON(t *testing.T) {
	model := &scriptedModel{responses: []string{
		`{"headline": "Designer", "skills": [`,
		`{"headline": "Designer", "skills": ["Figma"], "experience_years": 2, "education": "", "location": "", "remote_preference": true}`,
	}}

	profile, err := newTestExtractor(model).ExtractProfile(context.Background(), "portfolio")
	require.NoError(t, err)
	assert.Equal(t, []string{"Figma"}, profile.Skills)
	assert.True(t, profile.RemotePreference)
	assert.Equal(t, 2, model.calls)
}

func TestExtractProfile_GivesUpAfterRetries(t *testing.T) {
	model := &scriptedModel{responses: []string{"not json at all"}}

	_, err := newTestExtractor(model).ExtractProfile(context.Background(), "resume")
	assert.ErrorIs(t, err, ai.ErrExtraction)
	assert.Equal(t, parseAttempts, model.calls)
}

func TestExtractProfile_ModelError(t *testing.T) {
	model := &scriptedModel{err: errors.New("connection refused")}

	_, err := newTestExtractor(model).ExtractProfile(context.Background(), "resume")
	assert.ErrorIs(t, err, ai.ErrExtraction)
	assert.Equal(t, 1, model.calls)
}

func TestExtractProfile_EmptyText(t *testing.T) {
	model := &scriptedModel{}

	_, err := newTestExtractor(model).ExtractProfile(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ai.ErrExtraction)
	assert.Zero(t, model.calls)
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"chatter around object", `Sure! {"a":1} hope this helps`, `{"a":1}`},
		{"missing opening quote", `{"a":1, skills":["go"]}`, `{"a":1, "skills":["go"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanModelJSON(tt.input))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "unbounded", truncateRunes("unbounded", 0))
}
