package storage

import (
	"context"

	"github.com/poiesic/talentmatch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// CandidateRepository provides operations for managing candidate profiles.
type CandidateRepository interface {
	Repository

	// SaveCandidates inserts or replaces candidate profiles.
	// Profiles with ID=0 get a new ID from sequence.
	// InsertedAt is preserved for existing profiles; UpdatedAt is always refreshed.
	SaveCandidates(ctx context.Context, candidates ...*core.CandidateProfile) ([]*core.CandidateProfile, error)

	// DeleteCandidates removes candidate profiles by their IDs.
	// Returns ErrNotFound if any profile doesn't exist.
	DeleteCandidates(ctx context.Context, ids ...core.ID) error

	// GetCandidate retrieves a single candidate profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetCandidate(ctx context.Context, id core.ID) (*core.CandidateProfile, error)

	// GetCandidates retrieves multiple candidate profiles by their IDs.
	// Returns only the profiles that exist (no error for missing profiles).
	GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.CandidateProfile, error)

	// ListCandidates returns up to limit profiles ordered by ID.
	// A limit <= 0 returns every profile.
	ListCandidates(ctx context.Context, limit int) ([]*core.CandidateProfile, error)
}

// JobRepository provides operations for managing job postings.
type JobRepository interface {
	Repository

	// SaveJobs inserts or replaces job postings and maintains the active index.
	// Postings with ID=0 get a new ID from sequence.
	SaveJobs(ctx context.Context, jobs ...*core.JobPosting) ([]*core.JobPosting, error)

	// DeleteJobs removes job postings by their IDs.
	// Returns ErrNotFound if any posting doesn't exist.
	DeleteJobs(ctx context.Context, ids ...core.ID) error

	// GetJob retrieves a single job posting by ID.
	// Returns ErrNotFound if the posting doesn't exist.
	GetJob(ctx context.Context, id core.ID) (*core.JobPosting, error)

	// GetJobs retrieves multiple job postings by their IDs.
	// Returns only the postings that exist (no error for missing postings).
	GetJobs(ctx context.Context, ids ...core.ID) ([]*core.JobPosting, error)

	// ListActiveJobs returns up to limit active postings ordered by ID.
	// A limit <= 0 returns every active posting.
	ListActiveJobs(ctx context.Context, limit int) ([]*core.JobPosting, error)

	// ListJobs returns up to limit postings of any status ordered by ID.
	ListJobs(ctx context.Context, limit int) ([]*core.JobPosting, error)
}

// MatchRepository persists computed match results.
type MatchRepository interface {
	Repository

	// UpsertMatches writes match results keyed by (candidate, job, direction).
	// Writing the same key again replaces the stored result.
	UpsertMatches(ctx context.Context, matches ...*core.MatchResult) error

	// ListMatches returns the stored results for a query entity in one direction,
	// ordered by final score descending. A limit <= 0 returns every result.
	ListMatches(ctx context.Context, direction core.Direction, queryID core.ID, limit int) ([]*core.MatchResult, error)

	// DeleteMatches removes every stored result for a query entity in one direction.
	DeleteMatches(ctx context.Context, direction core.Direction, queryID core.ID) error
}
