package badger

import (
	"context"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertMatches_Idempotent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	result := &core.MatchResult{
		CandidateId:   1,
		JobId:         10,
		Direction:     core.CandidateToJobs,
		Final:         0.72,
		Quality:       core.QualityGood,
		MatchedSkills: []string{"go"},
	}

	require.NoError(t, repos.Matches.UpsertMatches(ctx, result))
	require.NoError(t, repos.Matches.UpsertMatches(ctx, result))

	stored, err := repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, result, stored[0])

	// A rescored pair replaces the earlier result
	rescored := *result
	rescored.Final = 0.9
	rescored.Quality = core.QualityExcellent
	require.NoError(t, repos.Matches.UpsertMatches(ctx, &rescored))

	stored, err = repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 0.9, stored[0].Final)
}

func TestListMatches_OrderingAndScope(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Matches.UpsertMatches(ctx,
		&core.MatchResult{CandidateId: 1, JobId: 30, Direction: core.CandidateToJobs, Final: 0.70, SkillOverlap: 0.5},
		&core.MatchResult{CandidateId: 1, JobId: 20, Direction: core.CandidateToJobs, Final: 0.80, SkillOverlap: 0.2},
		&core.MatchResult{CandidateId: 1, JobId: 10, Direction: core.CandidateToJobs, Final: 0.70, SkillOverlap: 0.5},
		&core.MatchResult{CandidateId: 1, JobId: 40, Direction: core.CandidateToJobs, Final: 0.70, SkillOverlap: 0.9},
		// Same pair, other direction: stored separately
		&core.MatchResult{CandidateId: 1, JobId: 20, Direction: core.JobToCandidates, Final: 0.95},
		// Other candidate
		&core.MatchResult{CandidateId: 2, JobId: 20, Direction: core.CandidateToJobs, Final: 0.99},
	))

	stored, err := repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, 0)
	require.NoError(t, err)
	require.Len(t, stored, 4)

	var order []core.ID
	for _, m := range stored {
		order = append(order, m.JobId)
	}
	assert.Equal(t, []core.ID{20, 40, 10, 30}, order)

	limited, err := repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	reverse, err := repos.Matches.ListMatches(ctx, core.JobToCandidates, 20, 0)
	require.NoError(t, err)
	require.Len(t, reverse, 1)
	assert.Equal(t, core.ID(1), reverse[0].CandidateId)
}

func TestDeleteMatches(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Matches.UpsertMatches(ctx,
		&core.MatchResult{CandidateId: 1, JobId: 10, Direction: core.CandidateToJobs},
		&core.MatchResult{CandidateId: 1, JobId: 11, Direction: core.CandidateToJobs},
		&core.MatchResult{CandidateId: 2, JobId: 10, Direction: core.CandidateToJobs},
	))

	require.NoError(t, repos.Matches.DeleteMatches(ctx, core.CandidateToJobs, 1))

	gone, err := repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := repos.Matches.ListMatches(ctx, core.CandidateToJobs, 2, 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestMatches_InvalidDirection(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	err := repos.Matches.UpsertMatches(ctx, &core.MatchResult{CandidateId: 1, JobId: 1})
	assert.ErrorIs(t, err, core.ErrInvalidDirection)

	_, err = repos.Matches.ListMatches(ctx, core.Direction(9), 1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidDirection)

	_, err = repos.Matches.ListMatches(ctx, core.CandidateToJobs, 1, -1)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
