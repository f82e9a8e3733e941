package lexical

import (
	"context"
	"fmt"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
)

// StoreCorpus lists and indexes the corpus held by the repositories.
type StoreCorpus struct {
	Jobs       storage.JobRepository
	Candidates storage.CandidateRepository
}

var _ CorpusLister = StoreCorpus{}

// ListIDs returns active job ids or candidate ids, bounded by limit.
func (s StoreCorpus) ListIDs(ctx context.Context, scope Scope, limit int) ([]core.ID, error) {
	switch scope {
	case ScopeJobs:
		jobs, err := s.Jobs.ListActiveJobs(ctx, limit)
		if err != nil {
			return nil, err
		}
		ids := make([]core.ID, len(jobs))
		for i, j := range jobs {
			ids[i] = j.Id
		}
		return ids, nil
	case ScopeCandidates:
		candidates, err := s.Candidates.ListCandidates(ctx, limit)
		if err != nil {
			return nil, err
		}
		ids := make([]core.ID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.Id
		}
		return ids, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidScope, scope)
}

// Rebuild indexes every active job and every candidate into idx and returns
// the number of documents indexed.
func (s StoreCorpus) Rebuild(ctx context.Context, idx Indexer) (int, error) {
	jobs, err := s.Jobs.ListActiveJobs(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("listing jobs: %w", err)
	}
	for _, j := range jobs {
		if err := idx.Put(ctx, ScopeJobs, j.Id, j.SearchText()); err != nil {
			return 0, err
		}
	}

	candidates, err := s.Candidates.ListCandidates(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("listing candidates: %w", err)
	}
	for _, c := range candidates {
		if err := idx.Put(ctx, ScopeCandidates, c.Id, c.SearchText()); err != nil {
			return 0, err
		}
	}
	return len(jobs) + len(candidates), nil
}
