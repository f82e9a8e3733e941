package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRanker(t *testing.T) *Ranker {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "fts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRanker_RankAndScope(t *testing.T) {
	r := openTestRanker(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 1, "Go backend engineer Kafka"))
	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 2, "React frontend engineer"))
	require.NoError(t, r.Put(ctx, lexical.ScopeCandidates, 3, "Go Kafka developer"))

	hits, err := r.Rank(ctx, lexical.ScopeJobs, "go kafka", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, core.ID(1), hits[0].Id)
	assert.Greater(t, hits[0].Score, 0.0)

	hits, err = r.Rank(ctx, lexical.ScopeJobs, "engineer", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestRanker_PutReplacesAndRemove(t *testing.T) {
	r := openTestRanker(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 1, "java"))
	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 1, "golang"))

	hits, err := r.Rank(ctx, lexical.ScopeJobs, "java", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, r.Remove(ctx, lexical.ScopeJobs, 1))
	hits, err = r.Rank(ctx, lexical.ScopeJobs, "golang", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRanker_LargeContentIDs(t *testing.T) {
	r := openTestRanker(t)
	ctx := context.Background()

	id := core.ID(18446744073709551000)
	require.NoError(t, r.Put(ctx, lexical.ScopeCandidates, id, "terraform"))

	hits, err := r.Rank(ctx, lexical.ScopeCandidates, "terraform", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].Id)
}

func TestRanker_OperatorsInQueryAreLiteral(t *testing.T) {
	r := openTestRanker(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 1, "sql near expert"))

	_, err := r.Rank(ctx, lexical.ScopeJobs, `NEAR( "sql" AND * OR`, 10)
	assert.NoError(t, err)

	hits, err := r.Rank(ctx, lexical.ScopeJobs, "the and", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "stop-word-only queries match nothing")
}

func TestRanker_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fts.db")
	ctx := context.Background()

	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 5, "kubernetes operator"))
	require.NoError(t, r.Close())

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()

	hits, err := r.Rank(ctx, lexical.ScopeJobs, "kubernetes", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, core.ID(5), hits[0].Id)
}

func TestRanker_Closed(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "fts.db"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Rank(context.Background(), lexical.ScopeJobs, "x", 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRanker_CloseDuringQueries(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "fts.db"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, r.Put(ctx, lexical.ScopeJobs, 1, "go developer"))

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := r.Rank(ctx, lexical.ScopeJobs, "go", 5)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			errs <- r.Put(ctx, lexical.ScopeJobs, core.ID(i+2), "rust developer")
		}()
	}
	require.NoError(t, r.Close())
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrClosed)
		}
	}
	assert.NoError(t, r.Close(), "closing twice is a no-op")
}

func TestMatchExpression(t *testing.T) {
	assert.Equal(t, `"go" OR "kafka"`, matchExpression("Go, kafka and go"))
	assert.Equal(t, `"say""hi"`, matchExpression(`say"hi`))
	assert.Empty(t, matchExpression("the of"))
}
