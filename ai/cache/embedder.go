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


// Package cache memoizes embeddings by content so unchanged text is never
// sent to the embedding provider twice.
package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
)

const keyPrefix = "talentmatch:emb:"

// CachedEmbedder wraps an ai.Embedder with a content-addressed Store.
// Store failures are logged and treated as misses.
type CachedEmbedder struct {
	next   ai.Embedder
	store  Store
	model  string
	ttl    time.Duration
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

var _ ai.Embedder = (*CachedEmbedder)(nil)

// Option configures a CachedEmbedder.
type Option func(*CachedEmbedder) error

// WithModel namespaces keys by model so a model change never serves stale vectors.
func WithModel(model string) Option {
	return func(c *CachedEmbedder) error {
		c.model = model
		return nil
	}
}

// WithTTL sets the entry lifetime. Zero keeps entries forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *CachedEmbedder) error {
		if ttl < 0 {
			return fmt.Errorf("cache ttl cannot be negative: %s", ttl)
		}
		c.ttl = ttl
		return nil
	}
}

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "embedding-cache")
		return nil
	}
}

// NewCachedEmbedder wraps next with store.
func NewCachedEmbedder(next ai.Embedder, store Store, opts ...Option) (*CachedEmbedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	c := &CachedEmbedder{
		next:   next,
		store:  store,
		ttl:    7 * 24 * time.Hour,
		logger: slog.Default().With("component", "embedding-cache"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return keyPrefix + c.model + ":" + hex.EncodeToString(sum[:])
}

// EmbedText returns the cached vector for text or computes and stores it.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.lookup(ctx, text); ok {
		return vec, nil
	}
	vec, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.save(ctx, text, vec)
	return vec, nil
}

// EmbedTexts serves cached vectors and embeds the remaining texts in one call.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vec, ok := c.lookup(ctx, text); ok {
			vectors[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return vectors, nil
	}

	computed, err := c.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missTexts) {
		return nil, fmt.Errorf("%w: %d vectors for %d texts", ai.ErrEmbedding, len(computed), len(missTexts))
	}
	for j, i := range missIdx {
		vectors[i] = computed[j]
		c.save(ctx, missTexts[j], computed[j])
	}
	return vectors, nil
}

// Stats returns cache hits and misses since creation.
func (c *CachedEmbedder) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *CachedEmbedder) lookup(ctx context.Context, text string) ([]float32, bool) {
	data, err := c.store.Get(ctx, c.key(text))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("cache read failed", "err", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	vec, _, err := core.VectorMUS.Unmarshal(data)
	if err != nil || len(vec) == 0 {
		c.logger.Warn("discarding undecodable cache entry", "err", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return vec, true
}

func (c *CachedEmbedder) save(ctx context.Context, text string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	data := make([]byte, core.VectorMUS.Size(vec))
	core.VectorMUS.Marshal(vec, data)
	if err := c.store.Set(ctx, c.key(text), data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "err", err)
	}
}
