package badger

import (
	"context"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
)

// MatchRepository implements storage.MatchRepository for BadgerDB.
// Results are keyed by direction, query entity and ranked entity so that every
// result of one query shares a key prefix.
type MatchRepository struct {
	backend *Backend
}

var _ storage.MatchRepository = (*MatchRepository)(nil)

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(backend *Backend) (*MatchRepository, error) {
	return &MatchRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MatchRepository has no resources to release.
func (r *MatchRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MatchRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertMatches writes match results, replacing any stored result with the same key.
func (r *MatchRepository) UpsertMatches(ctx context.Context, matches ...*core.MatchResult) error {
	if len(matches) == 0 {
		return nil
	}
	for _, match := range matches {
		if err := core.ValidateDirection(match.Direction); err != nil {
			return err
		}
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, match := range matches {
			if err := tx.Set(makeMatchKey(match.Key()), storage.MarshalMatch(match)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListMatches returns the stored results for a query entity, best first.
func (r *MatchRepository) ListMatches(ctx context.Context, direction core.Direction, queryID core.ID, limit int) ([]*core.MatchResult, error) {
	if err := core.ValidateDirection(direction); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", storage.ErrInvalidQuery, limit)
	}

	var results []*core.MatchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = scanRecords(tx, makePartialMatchKey(direction, queryID), 0, storage.UnmarshalMatch)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, core.CompareRank)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteMatches removes every stored result for a query entity in one direction.
func (r *MatchRepository) DeleteMatches(ctx context.Context, direction core.Direction, queryID core.ID) error {
	if err := core.ValidateDirection(direction); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range scanKeys(tx, makePartialMatchKey(direction, queryID)) {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
