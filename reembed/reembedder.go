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

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/progress"
	"github.com/poiesic/talentmatch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Stats counts the records re-embedded by a run.
type Stats struct {
	Candidates int
	Jobs       int
	Elapsed    time.Duration
}

// Reembedder orchestrates the reembedding of every candidate and job posting.
type Reembedder struct {
	config     *Config
	progress   io.Writer
	processor  *BatchProcessor
	candidates *Iterator[*core.CandidateProfile]
	jobs       *Iterator[*core.JobPosting]
	logger     *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(candidates storage.CandidateRepository, jobs storage.JobRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if candidates == nil || jobs == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(candidates, jobs, embedder, config.MaxRetries, config.RetryDelay),
		candidates: NewIterator(func(ctx context.Context) ([]*core.CandidateProfile, error) {
			return candidates.ListCandidates(ctx, 0)
		}, config.BatchSize),
		jobs: NewIterator(func(ctx context.Context) ([]*core.JobPosting, error) {
			return jobs.ListJobs(ctx, 0)
		}, config.BatchSize),
		logger: slog.Default().With("component", "reembedder"),
	}, nil
}

// Run re-embeds every candidate profile and every job posting, active or not.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	candidateCount, err := r.candidates.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	jobCount, err := r.jobs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	total := candidateCount + jobCount
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in database (0 records)\n")
		return stats, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d candidates and %d jobs (batch size: %d)\n",
		candidateCount, jobCount, r.config.BatchSize)

	tracker := progress.NewTracker(r.progress, "records", total, r.config.ReportInterval)
	tracker.Start()

	err = r.candidates.ForEach(ctx, func(batch []*core.CandidateProfile) error {
		if err := r.processor.ProcessCandidates(ctx, batch); err != nil {
			return fmt.Errorf("failed to process candidate batch: %w", err)
		}
		stats.Candidates += len(batch)
		tracker.Done(len(batch), 0)
		return nil
	})
	if err != nil {
		return stats, err
	}

	err = r.jobs.ForEach(ctx, func(batch []*core.JobPosting) error {
		if err := r.processor.ProcessJobs(ctx, batch); err != nil {
			return fmt.Errorf("failed to process job batch: %w", err)
		}
		stats.Jobs += len(batch)
		tracker.Done(len(batch), 0)
		return nil
	})
	if err != nil {
		return stats, err
	}

	tracker.Finish()
	stats.Elapsed = time.Since(start)

	processed := stats.Candidates + stats.Jobs
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		processed, stats.Elapsed.Round(time.Second), float64(processed)/stats.Elapsed.Seconds())
	r.logger.Info("reembedding complete", "candidates", stats.Candidates, "jobs", stats.Jobs)
	return stats, nil
}
