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

// Package batch computes matches for every query entity of a corpus in
// paced chunks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/poiesic/talentmatch/match"
	"github.com/poiesic/talentmatch/progress"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults.
const (
	DefaultChunkSize   = 50
	DefaultChunkDelay  = time.Second
	DefaultConcurrency = 4
)

// Matcher runs one matching invocation.
type Matcher interface {
	NewRequest(queryID core.ID, direction core.Direction, opts ...match.RequestOption) match.Request
	FindMatchesWithReport(ctx context.Context, req match.Request, monitor match.Monitor) (*match.Report, error)
}

var _ Matcher = (*match.Engine)(nil)

// Summary describes a finished or interrupted run.
type Summary struct {
	RunID     uuid.UUID
	Direction core.Direction
	Entities  int // Query entities listed for the run
	Processed int // Entities whose invocation returned, successfully or not
	Failed    int
	Results   int // Match results kept across all entities
	Skipped   int // Pairs dropped while scoring
	Degraded  int // Entities with at least one retrieval fallback
	Chunks    int
	Canceled  bool
	Elapsed   time.Duration
}

// Runner computes matches for a whole corpus. Chunks are started no more
// often than the chunk delay allows; entities within a chunk run
// concurrently. Canceling the run context stops new chunks, while the
// entities already in flight run to completion and persist.
type Runner struct {
	matcher     Matcher
	source      lexical.CorpusLister
	chunkSize   int
	chunkDelay  time.Duration
	concurrency int
	requestOpts []match.RequestOption
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "batch-runner")
		return nil
	}
}

// WithChunkSize sets the number of entities per chunk.
func WithChunkSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			return fmt.Errorf("%w: chunk size %d", ErrInvalidOption, size)
		}
		r.chunkSize = size
		return nil
	}
}

// WithChunkDelay sets the minimum interval between chunk starts.
// Zero disables pacing.
func WithChunkDelay(delay time.Duration) Option {
	return func(r *Runner) error {
		if delay < 0 {
			return fmt.Errorf("%w: chunk delay %s", ErrInvalidOption, delay)
		}
		r.chunkDelay = delay
		return nil
	}
}

// WithConcurrency bounds the entities matched at once within a chunk.
func WithConcurrency(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			return fmt.Errorf("%w: concurrency %d", ErrInvalidOption, n)
		}
		r.concurrency = n
		return nil
	}
}

// WithRequestOptions applies opts to every request of the run.
func WithRequestOptions(opts ...match.RequestOption) Option {
	return func(r *Runner) error {
		r.requestOpts = append(r.requestOpts, opts...)
		return nil
	}
}

// WithProgress prints a progress line to w.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) error {
		r.progress = w
		return nil
	}
}

// NewRunner creates a Runner. The source lists the query entities: candidate
// ids when matching candidates to jobs, active job ids otherwise.
func NewRunner(matcher Matcher, source lexical.CorpusLister, opts ...Option) (*Runner, error) {
	if matcher == nil {
		return nil, ErrMatcherRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}

	r := &Runner{
		matcher:     matcher,
		source:      source,
		chunkSize:   DefaultChunkSize,
		chunkDelay:  DefaultChunkDelay,
		concurrency: DefaultConcurrency,
		logger:      slog.Default().With("component", "batch-runner"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// querySource returns the scope whose entities act as queries in direction.
func querySource(direction core.Direction) (lexical.Scope, error) {
	switch direction {
	case core.CandidateToJobs:
		return lexical.ScopeCandidates, nil
	case core.JobToCandidates:
		return lexical.ScopeJobs, nil
	}
	return 0, fmt.Errorf("%w: %d", core.ErrInvalidDirection, direction)
}

// Run matches every query entity in direction. It returns the summary
// together with the context error when canceled, or with the
// UpstreamUnavailable error that stopped the run.
func (r *Runner) Run(ctx context.Context, direction core.Direction) (*Summary, error) {
	scope, err := querySource(direction)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: uuid.New(), Direction: direction}
	logger := r.logger.With("runID", summary.RunID, "direction", direction)
	start := time.Now()
	defer func() { summary.Elapsed = time.Since(start) }()

	ids, err := r.source.ListIDs(ctx, scope, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	summary.Entities = len(ids)
	logger.Info("batch run started", "entities", len(ids), "chunkSize", r.chunkSize)

	var tracker *progress.Tracker
	if r.progress != nil {
		tracker = progress.NewTracker(r.progress, "entities", len(ids), r.chunkSize)
		tracker.Start()
	}

	limit := rate.Inf
	if r.chunkDelay > 0 {
		limit = rate.Every(r.chunkDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var runErr error
	for offset := 0; offset < len(ids); offset += r.chunkSize {
		if err := limiter.Wait(ctx); err != nil {
			summary.Canceled = true
			runErr = ctx.Err()
			if runErr == nil {
				runErr = err
			}
			break
		}

		chunk := ids[offset:min(offset+r.chunkSize, len(ids))]
		stats := r.runChunk(ctx, direction, chunk, logger)
		summary.Chunks++
		summary.Processed += stats.started
		summary.Failed += stats.failed
		summary.Results += stats.results
		summary.Skipped += stats.skipped
		summary.Degraded += stats.degraded
		if tracker != nil {
			tracker.Done(stats.started, stats.failed)
		}

		if stats.upstream != nil {
			runErr = stats.upstream
			logger.Error("stopping batch run, store unavailable", "err", stats.upstream)
			break
		}
		if err := ctx.Err(); err != nil {
			summary.Canceled = true
			runErr = err
			break
		}
	}

	if tracker != nil {
		if summary.Processed == summary.Entities {
			tracker.Finish()
		} else {
			fmt.Fprintln(r.progress)
		}
	}

	logger.Info("batch run finished",
		"processed", summary.Processed, "failed", summary.Failed, "results", summary.Results,
		"skipped", summary.Skipped, "degraded", summary.Degraded, "canceled", summary.Canceled)
	return summary, runErr
}

type chunkStats struct {
	started  int
	failed   int
	results  int
	skipped  int
	degraded int
	upstream error
}

// runChunk matches the entities of chunk. An entity starts only while ctx is
// live; once started it runs on a context detached from ctx's cancellation
// so that it completes and persists.
func (r *Runner) runChunk(ctx context.Context, direction core.Direction, chunk []core.ID, logger *slog.Logger) chunkStats {
	work := context.WithoutCancel(ctx)

	var (
		mu    sync.Mutex
		stats chunkStats
	)

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, id := range chunk {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			mu.Lock()
			stats.started++
			mu.Unlock()

			req := r.matcher.NewRequest(id, direction, r.requestOpts...)
			report, err := r.matcher.FindMatchesWithReport(work, req, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.failed++
				logger.Warn("matching failed", "queryID", id, "err", err)
				if errors.Is(err, match.ErrUpstreamUnavailable) && stats.upstream == nil {
					stats.upstream = err
				}
				return nil
			}
			stats.results += len(report.Results)
			stats.skipped += report.Skipped
			if report.Degraded() {
				stats.degraded++
			}
			return nil
		})
	}
	_ = g.Wait()
	return stats
}
