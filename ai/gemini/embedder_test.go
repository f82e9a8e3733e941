package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/talentmatch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	gotModel    string
	gotContents []*genai.Content
	response    *genai.EmbedContentResponse
	err         error
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	return f.response, f.err
}

func embeddingsOf(values ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range values {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func TestEmbedTexts_OrderAndModel(t *testing.T) {
	fake := &fakeModels{response: embeddingsOf([]float32{1, 0}, []float32{0, 1})}
	embedder := newEmbedder(fake, "gemini-embedding-001")

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.Equal(t, "gemini-embedding-001", fake.gotModel)
	require.Len(t, fake.gotContents, 2)
	assert.Equal(t, "second", fake.gotContents[1].Parts[0].Text)
}

func TestEmbedText_TruncatesLongInput(t *testing.T) {
	fake := &fakeModels{response: embeddingsOf([]float32{0.5})}
	embedder := newEmbedder(fake, "m")

	_, err := embedder.EmbedText(context.Background(), strings.Repeat("a", maxTextBytes+10))
	require.NoError(t, err)
	assert.Len(t, fake.gotContents[0].Parts[0].Text, maxTextBytes)
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	fake := &fakeModels{response: embeddingsOf([]float32{1})}
	embedder := newEmbedder(fake, "m")

	_, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestEmbedTexts_EmptyVector(t *testing.T) {
	fake := &fakeModels{response: embeddingsOf([]float32{})}
	embedder := newEmbedder(fake, "m")

	_, err := embedder.EmbedText(context.Background(), "a")
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestEmbedTexts_APIError(t *testing.T) {
	apiErr := errors.New("quota exceeded")
	fake := &fakeModels{err: apiErr}
	embedder := newEmbedder(fake, "m")

	_, err := embedder.EmbedText(context.Background(), "a")
	assert.ErrorIs(t, err, apiErr)
}

func TestEmbedTexts_Empty(t *testing.T) {
	fake := &fakeModels{}
	vectors, err := newEmbedder(fake, "m").EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Nil(t, fake.gotContents)
}

func TestNewEmbedder_RequiresGeminiBackend(t *testing.T) {
	_, err := NewEmbedder(context.Background(), ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrInvalidConfig)
}
