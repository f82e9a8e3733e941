// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
// Active postings are additionally indexed under jobActivePrefix.
type JobRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	idSeq, err := backend.GetSequence(jobIDSeq)
	if err != nil {
		return nil, err
	}

	return &JobRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *JobRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveJobs inserts or replaces job postings.
func (r *JobRepository) SaveJobs(ctx context.Context, jobs ...*core.JobPosting) ([]*core.JobPosting, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ts := now()
		for _, job := range jobs {
			if job.Id == 0 {
				id, err := nextID(r.idSeq)
				if err != nil {
					return err
				}
				job.Id = core.ID(id)
			}

			key := makeJobKey(job.Id)
			old, err := readRecord(tx, key, storage.UnmarshalJob)
			if err != nil {
				return err
			}
			if old != nil {
				job.InsertedAt = old.InsertedAt
			} else {
				job.InsertedAt = ts
			}
			job.UpdatedAt = ts

			if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
				return err
			}

			// Keep the active index in step with the status
			activeKey := makeJobActiveKey(job.Id)
			if job.IsActive() {
				if err := tx.Set(activeKey, storage.MarshalID(job.Id)); err != nil {
					return err
				}
			} else if old != nil && old.IsActive() {
				if err := tx.Delete(activeKey); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return jobs, err
}

// DeleteJobs removes job postings by their IDs.
func (r *JobRepository) DeleteJobs(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeJobKey(id)
			job, err := readRecord(tx, key, storage.UnmarshalJob)
			if err != nil {
				return err
			}
			if job == nil {
				return storage.ErrNotFound
			}
			if job.IsActive() {
				if err := tx.Delete(makeJobActiveKey(id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves a single job posting by ID.
func (r *JobRepository) GetJob(ctx context.Context, id core.ID) (*core.JobPosting, error) {
	var result *core.JobPosting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeJobKey(id), storage.UnmarshalJob)
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

// GetJobs retrieves multiple job postings by their IDs.
func (r *JobRepository) GetJobs(ctx context.Context, ids ...core.ID) ([]*core.JobPosting, error) {
	var result []*core.JobPosting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			job, err := readRecord(tx, makeJobKey(id), storage.UnmarshalJob)
			if err != nil {
				return err
			}
			if job != nil {
				result = append(result, job)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListActiveJobs walks the active index and returns up to limit postings.
func (r *JobRepository) ListActiveJobs(ctx context.Context, limit int) ([]*core.JobPosting, error) {
	var result []*core.JobPosting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(jobActivePrefix + ":")
		for _, key := range scanKeys(tx, prefix) {
			if limit > 0 && len(result) >= limit {
				break
			}
			id := core.ID(binary.BigEndian.Uint64(key[len(prefix):]))
			job, err := readRecord(tx, makeJobKey(id), storage.UnmarshalJob)
			if err != nil {
				return err
			}
			if job != nil && job.IsActive() {
				result = append(result, job)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListJobs returns up to limit postings of any status ordered by ID.
func (r *JobRepository) ListJobs(ctx context.Context, limit int) ([]*core.JobPosting, error) {
	var result []*core.JobPosting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords(tx, []byte(jobRecordPrefix+":"), limit, storage.UnmarshalJob)
		return err
	}, false)
	return result, err
}
