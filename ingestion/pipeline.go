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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/poiesic/talentmatch/retry"
	"github.com/poiesic/talentmatch/storage"
)

// Pipeline orchestrates the ingestion of candidates and job postings.
// It keeps the lexical index in sync and embeds changed records concurrently.
type Pipeline struct {
	candidates    storage.CandidateRepository
	jobs          storage.JobRepository
	indexer       lexical.Indexer
	extractor     ai.ProfileExtractor
	embeddingPool *ants.Pool
	embeddingProc *embeddingProcessor
	embedder      ai.Embedder
	policy        retry.Policy
	pending       sync.WaitGroup
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// WithRetryPolicy bounds attempts and timeouts of embedding and extraction calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Pipeline) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		p.policy = policy
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	candidates storage.CandidateRepository,
	jobs storage.JobRepository,
	indexer lexical.Indexer,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if candidates == nil {
		return nil, ErrCandidateRepositoryRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	pool, err := ants.NewPool(max(1, runtime.NumCPU()/2))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		candidates:    candidates,
		jobs:          jobs,
		indexer:       indexer,
		extractor:     provider.ProfileExtractor(),
		embedder:      provider.Embedder(),
		embeddingPool: pool,
		policy:        retry.DefaultPolicy(),
		logger:        slog.Default().With("component", "ingestion"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options are applied (so it gets final config)
	p.embeddingProc, err = newEmbeddingProcessor(candidates, jobs, p.embedder, p.policy, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// SaveCandidates normalizes, validates and stores candidate profiles, then
// indexes them. Profiles whose search text changed lose their stale stored
// vector and are re-embedded asynchronously unless the caller supplied a new
// one. Unchanged profiles keep theirs.
func (p *Pipeline) SaveCandidates(ctx context.Context, candidates ...*core.CandidateProfile) ([]*core.CandidateProfile, error) {
	for i, c := range candidates {
		core.NormalizeCandidate(c)
		if err := core.ValidateCandidate(c); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	previous, err := p.existingCandidates(ctx, candidates)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		old, ok := previous[c.Id]
		switch {
		case !ok:
			// new record keeps a supplied vector
		case old.SearchText() == c.SearchText():
			if len(c.Vector) == 0 {
				c.Vector = old.Vector
			}
		case slices.Equal(c.Vector, old.Vector):
			c.Vector = nil
		}
	}

	saved, err := p.candidates.SaveCandidates(ctx, candidates...)
	if err != nil {
		return nil, err
	}

	var changed []core.ID
	for _, c := range saved {
		if err := p.indexer.Put(ctx, lexical.ScopeCandidates, c.Id, c.SearchText()); err != nil {
			p.logger.Error("error indexing candidate", "candidateID", c.Id, "err", err)
			return nil, err
		}
		if len(c.Vector) == 0 {
			changed = append(changed, c.Id)
		}
	}

	p.submit(changed, p.embeddingProc.processCandidates)
	return saved, nil
}

// SaveJobs normalizes, validates and stores job postings. Active postings
// are indexed and inactive ones are removed from the index.
func (p *Pipeline) SaveJobs(ctx context.Context, jobs ...*core.JobPosting) ([]*core.JobPosting, error) {
	for i, j := range jobs {
		core.NormalizeJob(j)
		if err := core.ValidateJob(j); err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
	}

	previous, err := p.existingJobs(ctx, jobs)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		old, ok := previous[j.Id]
		switch {
		case !ok:
			// new record keeps a supplied vector
		case old.SearchText() == j.SearchText():
			if len(j.Vector) == 0 {
				j.Vector = old.Vector
			}
		case slices.Equal(j.Vector, old.Vector):
			j.Vector = nil
		}
	}

	saved, err := p.jobs.SaveJobs(ctx, jobs...)
	if err != nil {
		return nil, err
	}

	var changed []core.ID
	for _, j := range saved {
		if j.IsActive() {
			err = p.indexer.Put(ctx, lexical.ScopeJobs, j.Id, j.SearchText())
		} else {
			err = p.indexer.Remove(ctx, lexical.ScopeJobs, j.Id)
		}
		if err != nil {
			p.logger.Error("error indexing job", "jobID", j.Id, "err", err)
			return nil, err
		}
		if len(j.Vector) == 0 {
			changed = append(changed, j.Id)
		}
	}

	p.submit(changed, p.embeddingProc.processJobs)
	return saved, nil
}

// DeleteCandidates removes candidate profiles and their index entries.
func (p *Pipeline) DeleteCandidates(ctx context.Context, ids ...core.ID) error {
	if err := p.candidates.DeleteCandidates(ctx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		if err := p.indexer.Remove(ctx, lexical.ScopeCandidates, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteJobs removes job postings and their index entries.
func (p *Pipeline) DeleteJobs(ctx context.Context, ids ...core.ID) error {
	if err := p.jobs.DeleteJobs(ctx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		if err := p.indexer.Remove(ctx, lexical.ScopeJobs, id); err != nil {
			return err
		}
	}
	return nil
}

// IngestResume extracts a profile from raw resume text and stores it under
// an id derived from the text, so ingesting the same resume twice updates
// one profile.
func (p *Pipeline) IngestResume(ctx context.Context, text string) (*core.CandidateProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResume
	}

	var profile *core.CandidateProfile
	err := p.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		profile, err = p.extractor.ExtractProfile(ctx, text)
		return err
	})
	if err != nil {
		p.logger.Error("error extracting profile", "err", err)
		return nil, err
	}
	profile.Id = core.IDFromContent(text)

	saved, err := p.SaveCandidates(ctx, profile)
	if err != nil {
		return nil, err
	}
	return saved[0], nil
}

// Wait blocks until every submitted embedding task has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release waits for pending embedding tasks and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.pending.Wait()
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}

func (p *Pipeline) submit(ids []core.ID, process func(context.Context, ...core.ID) error) {
	if len(ids) == 0 {
		return
	}
	p.pending.Add(1)
	err := p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "records", len(ids), "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
		p.logger.Error("error submitting embedding task", "records", len(ids), "err", err)
	}
}

func (p *Pipeline) existingCandidates(ctx context.Context, candidates []*core.CandidateProfile) (map[core.ID]*core.CandidateProfile, error) {
	var ids []core.ID
	for _, c := range candidates {
		if c.Id != 0 {
			ids = append(ids, c.Id)
		}
	}
	out := make(map[core.ID]*core.CandidateProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := p.candidates.GetCandidates(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, c := range found {
		out[c.Id] = c
	}
	return out, nil
}

func (p *Pipeline) existingJobs(ctx context.Context, jobs []*core.JobPosting) (map[core.ID]*core.JobPosting, error) {
	var ids []core.ID
	for _, j := range jobs {
		if j.Id != 0 {
			ids = append(ids, j.Id)
		}
	}
	out := make(map[core.ID]*core.JobPosting, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := p.jobs.GetJobs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, j := range found {
		out[j.Id] = j
	}
	return out, nil
}
