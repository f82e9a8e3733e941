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

package lexical

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/poiesic/talentmatch/core"
)

// BM25 parameters.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// corpus holds the inverted index of one scope.
type corpus struct {
	postings map[string]map[core.ID]int // term -> doc -> term frequency
	lengths  map[core.ID]int
	terms    map[core.ID][]string // distinct terms per doc, for removal
	totalLen int
}

func newCorpus() *corpus {
	return &corpus{
		postings: make(map[string]map[core.ID]int),
		lengths:  make(map[core.ID]int),
		terms:    make(map[core.ID][]string),
	}
}

func (c *corpus) remove(id core.ID) {
	length, ok := c.lengths[id]
	if !ok {
		return
	}
	for _, term := range c.terms[id] {
		docs := c.postings[term]
		delete(docs, id)
		if len(docs) == 0 {
			delete(c.postings, term)
		}
	}
	c.totalLen -= length
	delete(c.lengths, id)
	delete(c.terms, id)
}

func (c *corpus) put(id core.ID, text string) {
	c.remove(id)

	tokens := Tokenize(text)
	freqs := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freqs[t]++
	}

	distinct := make([]string, 0, len(freqs))
	for term, tf := range freqs {
		docs, ok := c.postings[term]
		if !ok {
			docs = make(map[core.ID]int)
			c.postings[term] = docs
		}
		docs[id] = tf
		distinct = append(distinct, term)
	}

	c.lengths[id] = len(tokens)
	c.terms[id] = distinct
	c.totalLen += len(tokens)
}

// Index is an in-process BM25 inverted index. It implements both Ranker
// and Indexer and is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	k1, b   float64
	corpora map[Scope]*corpus
}

var (
	_ Ranker  = (*Index)(nil)
	_ Indexer = (*Index)(nil)
)

// NewIndex creates an empty index with the default BM25 parameters.
func NewIndex() *Index {
	return &Index{
		k1: DefaultK1,
		b:  DefaultB,
		corpora: map[Scope]*corpus{
			ScopeJobs:       newCorpus(),
			ScopeCandidates: newCorpus(),
		},
	}
}

// Put indexes text under id, replacing any previous text.
func (x *Index) Put(_ context.Context, scope Scope, id core.ID, text string) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidScope, scope)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.corpora[scope].put(id, text)
	return nil
}

// Remove drops id from the scope. Unknown ids are ignored.
func (x *Index) Remove(_ context.Context, scope Scope, id core.ID) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidScope, scope)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.corpora[scope].remove(id)
	return nil
}

// Len returns the number of documents in scope.
func (x *Index) Len(scope Scope) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if c, ok := x.corpora[scope]; ok {
		return len(c.lengths)
	}
	return 0
}

// Rank scores every document sharing a term with query and returns the
// best limit hits, highest score first, ties by ascending id.
func (x *Index) Rank(ctx context.Context, scope Scope, query string, limit int) ([]Hit, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScope, scope)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	c := x.corpora[scope]
	n := len(c.lengths)
	if n == 0 {
		return nil, nil
	}
	avgLen := float64(c.totalLen) / float64(n)
	if avgLen == 0 {
		avgLen = 1
	}

	scores := make(map[core.ID]float64)
	for _, term := range uniqueTerms(query) {
		docs := c.postings[term]
		if len(docs) == 0 {
			continue
		}
		df := float64(len(docs))
		idf := math.Log(1 + (float64(n)-df+0.5)/(df+0.5))
		for id, tf := range docs {
			f := float64(tf)
			norm := x.k1 * (1 - x.b + x.b*float64(c.lengths[id])/avgLen)
			scores[id] += idf * f * (x.k1 + 1) / (f + norm)
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, Hit{Id: id, Score: score})
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
