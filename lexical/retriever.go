// Package lexical ranks a corpus against free text with BM25 and produces
// the bounded shortlist every later matching stage works on.
package lexical

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/retry"
)

// DefaultShortlist is the default bound on retrieved documents.
const DefaultShortlist = 200

// NeutralScore is the normalized lexical score given to every document when
// ranking is unavailable.
const NeutralScore = 0.5

// Degradation reasons reported by Retrieve.
const (
	ReasonRankerFailed = "ranker unavailable"
	ReasonNoHits       = "ranker returned no hits"
)

// Hit is a ranked document. Scores from a Ranker are raw; scores returned by
// Retriever.Retrieve are normalized to [0,1].
type Hit struct {
	Id    core.ID
	Score float64
}

// Ranker is the full-text ranking facility.
type Ranker interface {
	Rank(ctx context.Context, scope Scope, query string, limit int) ([]Hit, error)
}

// Indexer keeps a ranking facility in sync with the stored corpus.
type Indexer interface {
	Put(ctx context.Context, scope Scope, id core.ID, text string) error
	Remove(ctx context.Context, scope Scope, id core.ID) error
}

// CorpusLister enumerates the eligible documents of a scope.
type CorpusLister interface {
	ListIDs(ctx context.Context, scope Scope, limit int) ([]core.ID, error)
}

// Retriever produces lexical shortlists, falling back to the unranked corpus
// when the ranker cannot discriminate.
type Retriever struct {
	ranker Ranker
	corpus CorpusLister
	policy retry.Policy
	logger *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "lexical-retriever")
		return nil
	}
}

// WithRetryPolicy bounds attempts and timeouts of ranker and corpus calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(r *Retriever) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		r.policy = policy
		return nil
	}
}

// NewRetriever creates a Retriever.
func NewRetriever(ranker Ranker, corpus CorpusLister, opts ...Option) (*Retriever, error) {
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	r := &Retriever{
		ranker: ranker,
		corpus: corpus,
		policy: retry.DefaultPolicy(),
		logger: slog.Default().With("component", "lexical-retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve returns up to limit documents of scope ranked against query, with
// scores divided by the best score of the shortlist. When ranking fails or
// finds nothing, every eligible document (bounded by limit) is returned with
// NeutralScore and a Degradation. The only error is ErrCorpusUnavailable,
// returned when the fallback listing itself fails.
func (r *Retriever) Retrieve(ctx context.Context, scope Scope, query string, limit int) ([]Hit, *core.Degradation, error) {
	if limit < 1 {
		limit = DefaultShortlist
	}

	var hits []Hit
	rankErr := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		hits, err = r.ranker.Rank(ctx, scope, query, limit)
		return err
	})

	if rankErr == nil && len(hits) > 0 {
		return normalize(hits), nil, nil
	}

	reason := ReasonNoHits
	if rankErr != nil {
		reason = ReasonRankerFailed
		r.logger.Warn("lexical ranking failed, falling back to unranked corpus",
			"scope", scope, "err", rankErr)
	} else {
		r.logger.Info("lexical ranking found no hits, falling back to unranked corpus", "scope", scope)
	}

	var ids []core.ID
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		ids, err = r.corpus.ListIDs(ctx, scope, limit)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing %s: %w", ErrCorpusUnavailable, scope, err)
	}

	fallback := make([]Hit, len(ids))
	for i, id := range ids {
		fallback[i] = Hit{Id: id, Score: NeutralScore}
	}
	return fallback, &core.Degradation{
		Stage:    core.StageLexical,
		Reason:   reason,
		Affected: len(fallback),
		Err:      rankErr,
	}, nil
}

// normalize divides every score by the maximum so the best hit scores 1.
// Hits are copied; order is preserved.
func normalize(hits []Hit) []Hit {
	best := 0.0
	for _, h := range hits {
		best = max(best, h.Score)
	}

	out := make([]Hit, len(hits))
	for i, h := range hits {
		score := 0.0
		if best > 0 && h.Score > 0 {
			score = h.Score / best
		}
		out[i] = Hit{Id: h.Id, Score: score}
	}
	return out
}
