package badger

import (
	"context"
	"testing"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBasics(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	job := &core.JobPosting{
		Title:                   "Data Engineer",
		RequiredSkills:          []string{"Python", "Spark"},
		PreferredSkills:         []string{"Airflow"},
		RequiredExperienceYears: 3,
		RequiredEducation:       core.EducationBachelor,
		Salary:                  core.SalaryRange{Min: salary(80000), Max: salary(120000)},
		Status:                  core.JobStatusActive,
	}

	saved, err := repos.Jobs.SaveJobs(ctx, job)
	require.NoError(t, err)
	require.NotZero(t, saved[0].Id)

	got, err := repos.Jobs.GetJob(ctx, saved[0].Id)
	require.NoError(t, err)
	assert.Equal(t, saved[0], got)

	_, err = repos.Jobs.GetJob(ctx, saved[0].Id+100)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListActiveJobs_TracksStatus(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Jobs.SaveJobs(ctx,
		&core.JobPosting{Title: "active one", Status: core.JobStatusActive},
		&core.JobPosting{Title: "inactive", Status: core.JobStatusInactive},
		&core.JobPosting{Title: "active two", Status: core.JobStatusActive},
	)
	require.NoError(t, err)

	active, err := repos.Jobs.ListActiveJobs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "active one", active[0].Title)
	assert.Equal(t, "active two", active[1].Title)

	// Deactivate the first posting
	saved[0].Status = core.JobStatusInactive
	_, err = repos.Jobs.SaveJobs(ctx, saved[0])
	require.NoError(t, err)

	active, err = repos.Jobs.ListActiveJobs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active two", active[0].Title)

	// Reactivate the inactive posting
	saved[1].Status = core.JobStatusActive
	_, err = repos.Jobs.SaveJobs(ctx, saved[1])
	require.NoError(t, err)

	active, err = repos.Jobs.ListActiveJobs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "inactive", active[0].Title)

	all, err := repos.Jobs.ListJobs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteJobs_RemovesActiveIndex(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Jobs.SaveJobs(ctx, &core.JobPosting{Title: "temp", Status: core.JobStatusActive})
	require.NoError(t, err)

	require.NoError(t, repos.Jobs.DeleteJobs(ctx, saved[0].Id))

	active, err := repos.Jobs.ListActiveJobs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, repos.Jobs.DeleteJobs(ctx, saved[0].Id), storage.ErrNotFound)
}

func TestGetJobs_SkipsMissing(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Jobs.SaveJobs(ctx, &core.JobPosting{Title: "only", Status: core.JobStatusActive})
	require.NoError(t, err)

	got, err := repos.Jobs.GetJobs(ctx, 777, saved[0].Id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Title)
}
