package badger

import (
	"context"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func salary(v float64) *float64 { return &v }

func TestCandidateBasics(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	candidate := &core.CandidateProfile{
		Headline:          "Go developer",
		Skills:            []string{"Go", "Postgres"},
		ExperienceYears:   5,
		Education:         core.EducationBachelor,
		Location:          "Berlin",
		SalaryExpectation: salary(90000),
		Vector:            []float32{0.1, 0.2, 0.3},
	}

	saved, err := repos.Candidates.SaveCandidates(ctx, candidate)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].Id)
	assert.False(t, saved[0].InsertedAt.IsZero())

	got, err := repos.Candidates.GetCandidate(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Equal(t, saved[0], got)
}

func TestSaveCandidates_PreservesInsertedAt(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Candidates.SaveCandidates(ctx, &core.CandidateProfile{Headline: "first"})
	require.NoError(t, err)
	inserted := saved[0].InsertedAt

	update := &core.CandidateProfile{Id: saved[0].Id, Headline: "second"}
	_, err = repos.Candidates.SaveCandidates(ctx, update)
	require.NoError(t, err)

	got, err := repos.Candidates.GetCandidate(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Headline)
	assert.True(t, inserted.Equal(got.InsertedAt))
	assert.False(t, got.UpdatedAt.Before(inserted))
}

func TestSaveCandidates_ExplicitID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	id := core.IDFromContent("resume text")
	_, err := repos.Candidates.SaveCandidates(ctx, &core.CandidateProfile{Id: id, Headline: "from resume"})
	require.NoError(t, err)

	got, err := repos.Candidates.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)
}

func TestGetCandidate_NotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Candidates.GetCandidate(context.Background(), 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetCandidates_SkipsMissing(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Candidates.SaveCandidates(ctx,
		&core.CandidateProfile{Headline: "a"},
		&core.CandidateProfile{Headline: "b"},
	)
	require.NoError(t, err)

	got, err := repos.Candidates.GetCandidates(ctx, saved[0].Id, 12345, saved[1].Id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Headline)
	assert.Equal(t, "b", got[1].Headline)
}

func TestListCandidates(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	for _, h := range []string{"one", "two", "three"} {
		_, err := repos.Candidates.SaveCandidates(ctx, &core.CandidateProfile{Headline: h})
		require.NoError(t, err)
	}

	all, err := repos.Candidates.ListCandidates(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Id, all[i].Id, "candidates should be ordered by ID")
	}

	limited, err := repos.Candidates.ListCandidates(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteCandidates(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Candidates.SaveCandidates(ctx, &core.CandidateProfile{Headline: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, repos.Candidates.DeleteCandidates(ctx, saved[0].Id))

	_, err = repos.Candidates.GetCandidate(ctx, saved[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repos.Candidates.DeleteCandidates(ctx, saved[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
