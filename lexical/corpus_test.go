package lexical

import (
	"context"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCorpus_ListAndRebuild(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	ctx := context.Background()

	jobs, err := repos.Jobs.SaveJobs(ctx,
		&core.JobPosting{Title: "Go engineer", Status: core.JobStatusActive},
		&core.JobPosting{Title: "Closed Go role", Status: core.JobStatusInactive},
	)
	require.NoError(t, err)
	candidates, err := repos.Candidates.SaveCandidates(ctx,
		&core.CandidateProfile{Headline: "Go developer"},
	)
	require.NoError(t, err)

	corpus := StoreCorpus{Jobs: repos.Jobs, Candidates: repos.Candidates}

	ids, err := corpus.ListIDs(ctx, ScopeJobs, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{jobs[0].Id}, ids, "inactive jobs are not part of the corpus")

	ids, err = corpus.ListIDs(ctx, ScopeCandidates, 0)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{candidates[0].Id}, ids)

	_, err = corpus.ListIDs(ctx, Scope(0), 0)
	assert.ErrorIs(t, err, ErrInvalidScope)

	idx := NewIndex()
	n, err := corpus.Rebuild(ctx, idx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hits, err := idx.Rank(ctx, ScopeJobs, "go", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, jobs[0].Id, hits[0].Id)
}
