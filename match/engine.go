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

// Package match runs the matching pipeline for one query entity: lexical
// shortlist, semantic scoring of the shortlist, per-pair skill and attribute
// scoring, blending, then filtering, ranking and persistence of the results.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/poiesic/talentmatch/retry"
	"github.com/poiesic/talentmatch/scoring"
	"github.com/poiesic/talentmatch/semantic"
	"github.com/poiesic/talentmatch/storage"
)

// LexicalRetriever produces a normalized lexical shortlist.
type LexicalRetriever interface {
	Retrieve(ctx context.Context, scope lexical.Scope, query string, limit int) ([]lexical.Hit, *core.Degradation, error)
}

// SemanticScorer scores shortlisted documents against a query.
type SemanticScorer interface {
	Score(ctx context.Context, query string, docs []semantic.Document) (map[core.ID]float64, *core.Degradation)
}

var (
	_ LexicalRetriever = (*lexical.Retriever)(nil)
	_ SemanticScorer   = (*semantic.Retriever)(nil)
)

// Report is the full outcome of an invocation.
type Report struct {
	Results       []*core.MatchResult
	Degradations  []*core.Degradation
	ShortlistSize int
	Scored        int
	Skipped       int
}

// Degraded reports whether any retrieval stage fell back to neutral scores.
func (r *Report) Degraded() bool {
	return len(r.Degradations) > 0
}

// Engine finds and persists matches. It is safe for concurrent use.
type Engine struct {
	candidates storage.CandidateRepository
	jobs       storage.JobRepository
	matches    storage.MatchRepository
	lexical    LexicalRetriever
	semantic   SemanticScorer
	blender    *scoring.Blender
	pool       *ants.Pool
	policy     retry.Policy
	defaults   Defaults
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "match-engine")
		return nil
	}
}

// WithWeights sets the blending weights. Default is scoring.DefaultWeights().
func WithWeights(weights scoring.Weights) Option {
	return func(e *Engine) error {
		b, err := scoring.NewBlender(weights)
		if err != nil {
			return err
		}
		e.blender = b
		return nil
	}
}

// WithPoolSize sets the worker pool size for per-pair scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// WithRetryPolicy bounds attempts and timeouts of store calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(e *Engine) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		e.policy = policy
		return nil
	}
}

// WithDefaults sets the values used by NewRequest.
func WithDefaults(defaults Defaults) Option {
	return func(e *Engine) error {
		if err := defaults.validate(); err != nil {
			return err
		}
		e.defaults = defaults
		return nil
	}
}

// WithClock sets the source of ComputedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// NewEngine creates an Engine. Close releases its worker pool.
func NewEngine(
	candidates storage.CandidateRepository,
	jobs storage.JobRepository,
	matches storage.MatchRepository,
	lexicalRetriever LexicalRetriever,
	semanticScorer SemanticScorer,
	opts ...Option,
) (*Engine, error) {
	switch {
	case candidates == nil:
		return nil, ErrCandidateRepositoryRequired
	case jobs == nil:
		return nil, ErrJobRepositoryRequired
	case matches == nil:
		return nil, ErrMatchRepositoryRequired
	case lexicalRetriever == nil:
		return nil, ErrLexicalRequired
	case semanticScorer == nil:
		return nil, ErrSemanticRequired
	}

	blender, err := scoring.NewBlender(scoring.DefaultWeights())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		candidates: candidates,
		jobs:       jobs,
		matches:    matches,
		lexical:    lexicalRetriever,
		semantic:   semanticScorer,
		blender:    blender,
		policy:     retry.DefaultPolicy(),
		defaults:   DefaultDefaults(),
		now:        time.Now,
		logger:     slog.Default().With("component", "match-engine"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Close()
			return nil, err
		}
	}

	if e.pool == nil {
		pool, err := ants.NewPool(max(1, runtime.NumCPU()/2))
		if err != nil {
			return nil, err
		}
		e.pool = pool
	}
	return e, nil
}

// Close releases the worker pool.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Defaults returns the engine's request defaults.
func (e *Engine) Defaults() Defaults {
	return e.defaults
}

// NewRequest builds a Request from the engine defaults and opts.
func (e *Engine) NewRequest(queryID core.ID, direction core.Direction, opts ...RequestOption) Request {
	req := Request{
		QueryID:   queryID,
		Direction: direction,
		Limit:     e.defaults.Limit,
		MinScore:  e.defaults.MinScore,
		Shortlist: e.defaults.Shortlist,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// FindMatches returns up to limit results for the query entity, best first,
// and persists them.
func (e *Engine) FindMatches(ctx context.Context, queryID core.ID, direction core.Direction, opts ...RequestOption) ([]*core.MatchResult, error) {
	report, err := e.FindMatchesWithReport(ctx, e.NewRequest(queryID, direction, opts...), nil)
	if err != nil {
		return nil, err
	}
	return report.Results, nil
}

// query is the query entity resolved for a request.
type query struct {
	candidate *core.CandidateProfile
	job       *core.JobPosting
	text      string
	scope     lexical.Scope
}

// FindMatchesWithReport runs one invocation and reports every stage outcome.
// The monitor receives callbacks at each stage; nil disables monitoring.
//
// Only invalid input and an unreachable store abort the call. Retrieval
// fallbacks are listed in Report.Degradations and failed pairs are counted in
// Report.Skipped.
func (e *Engine) FindMatchesWithReport(ctx context.Context, req Request, monitor Monitor) (*Report, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	logger := e.logger.With("direction", req.Direction, "queryID", req.QueryID)
	monitor.Start(req)

	q, err := e.loadQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	degraded := func(d *core.Degradation) {
		if d == nil {
			return
		}
		report.Degradations = append(report.Degradations, d)
		logger.Warn("retrieval degraded", "kind", KindRetrievalDegraded,
			"stage", d.Stage, "reason", d.Reason, "affected", d.Affected, "err", d.Err)
		monitor.Degraded(d)
	}

	// 1. Lexical shortlist
	hits, d, err := e.lexical.Retrieve(ctx, q.scope, q.text, req.Shortlist)
	if err != nil {
		logger.Error("corpus unavailable", "err", err)
		return nil, newError(KindUpstreamUnavailable, "lexical retrieval", err)
	}
	degraded(d)
	report.ShortlistSize = len(hits)
	monitor.AfterLexicalRetrieval(hits)

	// 2. Shortlisted records
	ids := make([]core.ID, len(hits))
	for i, h := range hits {
		ids[i] = h.Id
	}
	candidates, jobs, err := e.fetchDocuments(ctx, q.scope, ids)
	if err != nil {
		logger.Error("error retrieving shortlisted records", "count", len(ids), "err", err)
		return nil, newError(KindUpstreamUnavailable, "fetch shortlist", err)
	}
	monitor.AfterRecordRetrieval(len(candidates)+len(jobs), len(ids))

	// 3. Semantic scores, shortlist only
	docs := make([]semantic.Document, 0, len(ids))
	for _, id := range ids {
		if c, ok := candidates[id]; ok {
			docs = append(docs, semantic.Document{Id: id, Vector: c.Vector})
		} else if j, ok := jobs[id]; ok {
			docs = append(docs, semantic.Document{Id: id, Vector: j.Vector})
		}
	}
	semanticScores, d := e.semantic.Score(ctx, q.text, docs)
	degraded(d)
	monitor.AfterSemanticScoring(semanticScores)

	// 4. Per-pair scoring
	computedAt := e.now().UTC()
	pairs := make([]pairInput, len(hits))
	for i, h := range hits {
		p := pairInput{
			direction:  req.Direction,
			documentID: h.Id,
			lexical:    h.Score,
			computedAt: computedAt,
		}
		p.semantic, p.hasSemantic = semanticScores[h.Id]
		if req.Direction == core.CandidateToJobs {
			p.candidate, p.job = q.candidate, jobs[h.Id]
		} else {
			p.candidate, p.job = candidates[h.Id], q.job
		}
		pairs[i] = p
	}
	scored, failures := e.scoreAll(pairs)

	results := make([]*core.MatchResult, 0, len(scored))
	for i, r := range scored {
		if failures[i] != nil {
			report.Skipped++
			logger.Warn("pair skipped", "kind", KindPairScoringFailed,
				"documentID", pairs[i].documentID, "err", failures[i])
			monitor.PairSkipped(pairs[i].documentID, failures[i])
			continue
		}
		monitor.PairScored(r)
		results = append(results, r)
	}
	report.Scored = len(results)
	if report.Skipped > 0 {
		logger.Info("pairs skipped during scoring", "skipped", report.Skipped, "scored", report.Scored)
	}

	// 5-7. Filter, rank, truncate
	results = slices.DeleteFunc(results, func(r *core.MatchResult) bool {
		return r.Final < req.MinScore
	})
	monitor.AfterFiltering(len(results), report.Scored)
	slices.SortFunc(results, core.CompareRank)
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	// 8. Persist
	if !req.DryRun && len(results) > 0 {
		err := e.policy.Do(ctx, func(ctx context.Context) error {
			return e.matches.UpsertMatches(ctx, results...)
		})
		if err != nil {
			logger.Error("error persisting matches", "count", len(results), "err", err)
			return nil, newError(KindUpstreamUnavailable, "persist matches", err)
		}
	}

	report.Results = results
	monitor.Finish(results)
	logger.Debug("matching complete", "shortlist", report.ShortlistSize,
		"results", len(results), "skipped", report.Skipped, "degraded", report.Degraded())
	return report, nil
}

func (e *Engine) loadQuery(ctx context.Context, req Request) (*query, error) {
	const op = "load query entity"
	scope, err := lexical.ScopeFor(req.Direction)
	if err != nil {
		return nil, newError(KindInvalidInput, op, err)
	}

	q := &query{scope: scope}
	err = e.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		if req.Direction == core.CandidateToJobs {
			q.candidate, err = e.candidates.GetCandidate(ctx, req.QueryID)
		} else {
			q.job, err = e.jobs.GetJob(ctx, req.QueryID)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return retry.Permanent(err)
		}
		return err
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, newError(KindInvalidInput, op, fmt.Errorf("query entity %d: %w", req.QueryID, err))
	case err != nil:
		return nil, newError(KindUpstreamUnavailable, op, err)
	}

	if q.job != nil {
		if !q.job.IsActive() {
			return nil, invalidInput(op, "job %d is not active", q.job.Id)
		}
		q.text = q.job.SearchText()
	} else {
		q.text = q.candidate.SearchText()
	}
	return q, nil
}

func (e *Engine) fetchDocuments(ctx context.Context, scope lexical.Scope, ids []core.ID) (map[core.ID]*core.CandidateProfile, map[core.ID]*core.JobPosting, error) {
	candidates := make(map[core.ID]*core.CandidateProfile)
	jobs := make(map[core.ID]*core.JobPosting)
	if len(ids) == 0 {
		return candidates, jobs, nil
	}

	err := e.policy.Do(ctx, func(ctx context.Context) error {
		if scope == lexical.ScopeJobs {
			found, err := e.jobs.GetJobs(ctx, ids...)
			if err != nil {
				return err
			}
			for _, j := range found {
				jobs[j.Id] = j
			}
			return nil
		}
		found, err := e.candidates.GetCandidates(ctx, ids...)
		if err != nil {
			return err
		}
		for _, c := range found {
			candidates[c.Id] = c
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return candidates, jobs, nil
}

// scoreAll scores every pair on the worker pool. Results and failures are
// index-aligned with pairs.
func (e *Engine) scoreAll(pairs []pairInput) ([]*core.MatchResult, []error) {
	results := make([]*core.MatchResult, len(pairs))
	failures := make([]error, len(pairs))

	var wg sync.WaitGroup
	for i := range pairs {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[i] = newError(KindPairScoringFailed, "score pair", fmt.Errorf("panic: %v", r))
				}
			}()
			results[i], failures[i] = e.scorePair(pairs[i])
		})
		if err != nil {
			wg.Done()
			failures[i] = newError(KindPairScoringFailed, "submit pair", err)
		}
	}
	wg.Wait()
	return results, failures
}
