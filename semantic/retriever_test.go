package semantic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/talentmatch/ai/mock"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Timeout: time.Second}
}

func fixedEmbedder(vec []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return vec, nil
	}
	return embedder
}

func TestScore_Similarity(t *testing.T) {
	retriever, err := NewRetriever(fixedEmbedder([]float32{1, 0}), WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	scores, degradation := retriever.Score(context.Background(), "query", []Document{
		{Id: 1, Vector: []float32{1, 0}},
		{Id: 2, Vector: []float32{0, 1}},
		{Id: 3, Vector: []float32{-1, 0}},
	})

	assert.Nil(t, degradation)
	assert.InDelta(t, 1.0, scores[1], 1e-9)
	assert.InDelta(t, 0.0, scores[2], 1e-9)
	assert.InDelta(t, 0.0, scores[3], 1e-9, "negative similarity clamps to zero")
}

func TestScore_MissingVectorIsNeutralForThatDocumentOnly(t *testing.T) {
	retriever, err := NewRetriever(fixedEmbedder([]float32{1, 0}), WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	scores, degradation := retriever.Score(context.Background(), "query", []Document{
		{Id: 1, Vector: []float32{1, 0}},
		{Id: 2},
		{Id: 3, Vector: []float32{1, 0, 0}},
	})

	assert.InDelta(t, 1.0, scores[1], 1e-9)
	assert.Equal(t, NeutralScore, scores[2])
	assert.Equal(t, NeutralScore, scores[3])
	require.NotNil(t, degradation)
	assert.Equal(t, core.StageSemantic, degradation.Stage)
	assert.Equal(t, ReasonMissingEmbeddings, degradation.Reason)
	assert.Equal(t, 2, degradation.Affected)
}

func TestScore_EmbedderFailureGivesNeutralScores(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	providerErr := errors.New("provider down")
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, providerErr
	}
	retriever, err := NewRetriever(embedder, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	scores, degradation := retriever.Score(context.Background(), "query", []Document{
		{Id: 1, Vector: []float32{1, 0}},
		{Id: 2, Vector: []float32{0, 1}},
	})

	assert.Equal(t, map[core.ID]float64{1: NeutralScore, 2: NeutralScore}, scores)
	require.NotNil(t, degradation)
	assert.Equal(t, ReasonQueryEmbedding, degradation.Reason)
	assert.Equal(t, 2, degradation.Affected)
	assert.ErrorIs(t, degradation.Err, providerErr)
	assert.Equal(t, 2, embedder.CallCount(), "query embedding is retried")
}

func TestScore_EmptyEmbeddingIsNotRetried(t *testing.T) {
	embedder := fixedEmbedder(nil)
	retriever, err := NewRetriever(embedder, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	_, degradation := retriever.Score(context.Background(), "query", []Document{{Id: 1, Vector: []float32{1}}})

	require.NotNil(t, degradation)
	assert.ErrorIs(t, degradation.Err, ErrEmptyEmbedding)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestScore_EmptyShortlistSkipsEmbedding(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	retriever, err := NewRetriever(embedder)
	require.NoError(t, err)

	scores, degradation := retriever.Score(context.Background(), "query", nil)
	assert.Empty(t, scores)
	assert.Nil(t, degradation)
	assert.Zero(t, embedder.CallCount())
}

func TestNewRetriever_Validation(t *testing.T) {
	_, err := NewRetriever(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(mock.NewMockEmbedder(), WithRetryPolicy(retry.Policy{}))
	assert.ErrorIs(t, err, retry.ErrInvalidMaxAttempts)

	_, err = NewRetriever(mock.NewMockEmbedder(), WithLogger(nil))
	assert.NoError(t, err)
}
