package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func seedCandidates(t *testing.T, repos *badger.Repositories, n int) []*core.CandidateProfile {
	t.Helper()
	candidates := make([]*core.CandidateProfile, n)
	for i := range candidates {
		candidates[i] = &core.CandidateProfile{Headline: "candidate", Skills: []string{"go"}}
	}
	saved, err := repos.Candidates.SaveCandidates(context.Background(), candidates...)
	require.NoError(t, err)
	return saved
}

func listOf(n int) func(context.Context) ([]int, error) {
	return func(context.Context) ([]int, error) {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
}

func TestIterator_Batches(t *testing.T) {
	it := NewIterator(listOf(7), 3)

	var sizes []int
	var seen []int
	err := it.ForEach(context.Background(), func(batch []int) error {
		sizes = append(sizes, len(batch))
		seen = append(seen, batch...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, seen)

	count, err := it.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestIterator_DefaultBatchSize(t *testing.T) {
	it := NewIterator(listOf(DefaultBatchSize+1), 0)

	batches := 0
	require.NoError(t, it.ForEach(context.Background(), func([]int) error {
		batches++
		return nil
	}))
	assert.Equal(t, 2, batches)
}

func TestIterator_Empty(t *testing.T) {
	called := false
	err := NewIterator(listOf(0), 5).ForEach(context.Background(), func([]int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestIterator_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	batches := 0
	err := NewIterator(listOf(10), 2).ForEach(context.Background(), func([]int) error {
		batches++
		if batches == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, batches)
}

func TestIterator_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	batches := 0
	err := NewIterator(listOf(10), 2).ForEach(ctx, func([]int) error {
		batches++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, batches)

	err = NewIterator(listOf(10), 2).ForEach(ctx, func([]int) error {
		t.Fatal("should not be called on a canceled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIterator_ListError(t *testing.T) {
	boom := errors.New("list failed")
	it := NewIterator(func(context.Context) ([]int, error) { return nil, boom }, 2)

	assert.ErrorIs(t, it.ForEach(context.Background(), func([]int) error { return nil }), boom)
	_, err := it.Count(context.Background())
	assert.ErrorIs(t, err, boom)
}
