package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
)

// CandidateRepository implements storage.CandidateRepository for BadgerDB.
type CandidateRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CandidateRepository = (*CandidateRepository)(nil)

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(backend *Backend) (*CandidateRepository, error) {
	idSeq, err := backend.GetSequence(candidateIDSeq)
	if err != nil {
		return nil, err
	}

	return &CandidateRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CandidateRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *CandidateRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveCandidates inserts or replaces candidate profiles.
func (r *CandidateRepository) SaveCandidates(ctx context.Context, candidates ...*core.CandidateProfile) ([]*core.CandidateProfile, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ts := now()
		for _, candidate := range candidates {
			if candidate.Id == 0 {
				id, err := nextID(r.idSeq)
				if err != nil {
					return err
				}
				candidate.Id = core.ID(id)
			}

			key := makeCandidateKey(candidate.Id)
			old, err := readRecord(tx, key, storage.UnmarshalCandidate)
			if err != nil {
				return err
			}
			if old != nil {
				candidate.InsertedAt = old.InsertedAt
			} else {
				candidate.InsertedAt = ts
			}
			candidate.UpdatedAt = ts

			if err := tx.Set(key, storage.MarshalCandidate(candidate)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return candidates, err
}

// DeleteCandidates removes candidate profiles by their IDs.
func (r *CandidateRepository) DeleteCandidates(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCandidateKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCandidate retrieves a single candidate profile by ID.
func (r *CandidateRepository) GetCandidate(ctx context.Context, id core.ID) (*core.CandidateProfile, error) {
	var result *core.CandidateProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeCandidateKey(id), storage.UnmarshalCandidate)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCandidates retrieves multiple candidate profiles by their IDs.
func (r *CandidateRepository) GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.CandidateProfile, error) {
	var result []*core.CandidateProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			candidate, err := readRecord(tx, makeCandidateKey(id), storage.UnmarshalCandidate)
			if err != nil {
				return err
			}
			if candidate != nil {
				result = append(result, candidate)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListCandidates returns up to limit profiles ordered by ID.
func (r *CandidateRepository) ListCandidates(ctx context.Context, limit int) ([]*core.CandidateProfile, error) {
	var result []*core.CandidateProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords(tx, []byte(candidateRecordPrefix+":"), limit, storage.UnmarshalCandidate)
		return err
	}, false)
	return result, err
}
