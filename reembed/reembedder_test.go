package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/talentmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(batchSize int) *Config {
	return &Config{
		BatchSize:      batchSize,
		ReportInterval: batchSize,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedder_Run(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	seedCandidates(t, repos, 7)
	_, err := repos.Jobs.SaveJobs(ctx,
		&core.JobPosting{Title: "a", Status: core.JobStatusActive},
		&core.JobPosting{Title: "b", Status: core.JobStatusActive},
		&core.JobPosting{Title: "c", Status: core.JobStatusInactive},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(repos.Candidates, repos.Jobs, &mockEmbedder{}, testConfig(3), &buf)
	require.NoError(t, err)

	stats, err := reembedder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Candidates)
	assert.Equal(t, 3, stats.Jobs)

	candidates, err := repos.Candidates.ListCandidates(ctx, 0)
	require.NoError(t, err)
	for _, c := range candidates {
		require.NotEmpty(t, c.Vector, "candidate %d should have embedding", c.Id)
		var magnitude float32
		for _, v := range c.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
	}

	jobs, err := repos.Jobs.ListJobs(ctx, 0)
	require.NoError(t, err)
	for _, j := range jobs {
		assert.NotEmpty(t, j.Vector)
	}

	output := buf.String()
	assert.Contains(t, output, "7 candidates and 3 jobs")
	assert.Contains(t, output, "10/10", "should show completion")
	assert.Contains(t, output, "Reembedding complete")
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	repos := setupTestDB(t)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(repos.Candidates, repos.Jobs, &mockEmbedder{}, DefaultConfig(), &buf)
	require.NoError(t, err)

	stats, err := reembedder.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Candidates+stats.Jobs)
	assert.Contains(t, buf.String(), "0 records", "should report zero records")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	repos := setupTestDB(t)
	seedCandidates(t, repos, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callCount := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(_ context.Context, texts []string) ([][]float32, error) {
			callCount++
			if callCount == 2 {
				cancel()
			}
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}

	reembedder, err := NewReembedder(repos.Candidates, repos.Jobs, embedder, testConfig(3), nil)
	require.NoError(t, err)

	stats, err := reembedder.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 6, stats.Candidates)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	repos := setupTestDB(t)
	seedCandidates(t, repos, 1)

	embedder := &mockEmbedder{
		embedTextsFunc: func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("persistent error")
		},
	}
	config := testConfig(1)
	config.MaxRetries = 2

	reembedder, err := NewReembedder(repos.Candidates, repos.Jobs, embedder, config, nil)
	require.NoError(t, err)

	_, err = reembedder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestNewReembedder_Validation(t *testing.T) {
	repos := setupTestDB(t)

	_, err := NewReembedder(nil, repos.Jobs, &mockEmbedder{}, nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = NewReembedder(repos.Candidates, repos.Jobs, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0, "batch size should be positive")
	assert.Greater(t, config.ReportInterval, 0, "report interval should be positive")
	assert.Greater(t, config.MaxRetries, 0, "max retries should be positive")
	assert.Greater(t, config.RetryDelay, time.Duration(0), "retry delay should be positive")
}
