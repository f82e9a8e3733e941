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

// Package semantic scores a lexical shortlist by embedding similarity.
package semantic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/retry"
)

// NeutralScore is assigned when similarity cannot be computed.
const NeutralScore = 0.5

// Degradation reasons reported by Score.
const (
	ReasonQueryEmbedding    = "query embedding unavailable"
	ReasonMissingEmbeddings = "documents without usable embeddings"
)

// Document is a shortlisted record with its stored embedding.
type Document struct {
	Id     core.ID
	Vector []float32
}

// Retriever computes query-to-document similarity over a shortlist.
type Retriever struct {
	embedder ai.Embedder
	policy   retry.Policy
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "semantic-retriever")
		return nil
	}
}

// WithRetryPolicy bounds attempts and per-attempt timeout of the query embedding call.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(r *Retriever) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		r.policy = policy
		return nil
	}
}

// NewRetriever creates a Retriever backed by embedder.
func NewRetriever(embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	r := &Retriever{
		embedder: embedder,
		policy:   retry.DefaultPolicy(),
		logger:   slog.Default().With("component", "semantic-retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Score embeds query and returns a similarity in [0,1] for every document.
// It never fails: an unavailable query embedding gives every document
// NeutralScore, and a document without a comparable vector gets NeutralScore
// on its own. Either case is described by the returned Degradation.
func (r *Retriever) Score(ctx context.Context, query string, docs []Document) (map[core.ID]float64, *core.Degradation) {
	scores := make(map[core.ID]float64, len(docs))
	if len(docs) == 0 {
		return scores, nil
	}

	queryVec, err := r.embedQuery(ctx, query)
	if err != nil {
		for _, doc := range docs {
			scores[doc.Id] = NeutralScore
		}
		r.logger.Warn("query embedding failed, using neutral semantic scores",
			"documents", len(docs), "err", err)
		return scores, &core.Degradation{
			Stage:    core.StageSemantic,
			Reason:   ReasonQueryEmbedding,
			Affected: len(docs),
			Err:      err,
		}
	}

	missing := 0
	for _, doc := range docs {
		sim, ok := Cosine(queryVec, doc.Vector)
		if !ok {
			sim = NeutralScore
			missing++
		}
		scores[doc.Id] = sim
	}

	if missing > 0 {
		r.logger.Debug("documents scored neutrally", "missing", missing, "documents", len(docs))
		return scores, &core.Degradation{
			Stage:    core.StageSemantic,
			Reason:   ReasonMissingEmbeddings,
			Affected: missing,
		}
	}
	return scores, nil
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	var vec []float32
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		v, err := r.embedder.EmbedText(ctx, query)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return retry.Permanent(ErrEmptyEmbedding)
		}
		vec = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vec, nil
}
