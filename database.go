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


// Package talentmatch wires storage, lexical indexing, embeddings and the
// match engine into a single Database.
package talentmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/ai/cache"
	"github.com/poiesic/talentmatch/ai/gemini"
	"github.com/poiesic/talentmatch/ai/openai"
	"github.com/poiesic/talentmatch/batch"
	"github.com/poiesic/talentmatch/config"
	"github.com/poiesic/talentmatch/ingestion"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/poiesic/talentmatch/lexical/sqlite"
	"github.com/poiesic/talentmatch/match"
	"github.com/poiesic/talentmatch/reembed"
	"github.com/poiesic/talentmatch/semantic"
	"github.com/poiesic/talentmatch/storage"
	"github.com/poiesic/talentmatch/storage/badger"
)

// index is the lexical index shared by ingestion and retrieval.
type index interface {
	lexical.Ranker
	lexical.Indexer
}

type Database struct {
	config   config.Config
	repos    *badger.Repositories
	index    index
	closers  []io.Closer
	provider ai.AIProvider
	engine   *match.Engine
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   config.Config
	provider ai.AIProvider
	logger   *slog.Logger
}

// WithConfig replaces the default configuration. The storage path passed to
// NewDatabase takes precedence over cfg.Storage.Path.
func WithConfig(cfg config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithAIProvider supplies the AI provider instead of building one from the
// ai section of the configuration.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithLogger sets the logger used by every component. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// cachedProvider substitutes a caching embedder for the provider's own.
type cachedProvider struct {
	ai.AIProvider
	embedder ai.Embedder
}

func (p *cachedProvider) Embedder() ai.Embedder {
	return p.embedder
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	ctx := context.Background()

	options := &databaseOptions{
		config: config.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if filePath != "" {
		options.config.Storage.Path = filePath
	}

	cfg, res := config.NormalizeAndValidate(options.config)
	if err := res.Err(); err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		options.logger.Warn("configuration warning", "warning", w)
	}

	db := &Database{
		config: cfg,
		logger: options.logger,
	}

	repos, err := badger.OpenRepositories(cfg.Storage.Path, cfg.Storage.InMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	db.repos = repos

	if err := db.openIndex(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.openProvider(ctx, options.provider); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.openEngine(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *Database) openIndex(ctx context.Context) error {
	switch db.config.Storage.Index {
	case config.IndexSQLite:
		ranker, err := sqlite.Open(db.config.Storage.IndexPath, sqlite.WithLogger(db.logger))
		if err != nil {
			return fmt.Errorf("opening lexical index: %w", err)
		}
		db.index = ranker
		db.closers = append(db.closers, ranker)
		return nil
	default:
		db.index = lexical.NewIndex()
		n, err := db.RebuildIndex(ctx)
		if err != nil {
			return fmt.Errorf("building lexical index: %w", err)
		}
		db.logger.Debug("lexical index built", "documents", n)
		return nil
	}
}

func (db *Database) openProvider(ctx context.Context, provider ai.AIProvider) error {
	aiCfg := db.config.AIConfig()

	if provider == nil {
		var embedder ai.Embedder
		var err error
		if aiCfg.EmbeddingBackend == ai.BackendGemini {
			embedder, err = gemini.NewEmbedder(ctx, aiCfg)
		} else {
			embedder, err = openai.NewEmbedder(aiCfg)
		}
		if err != nil {
			return err
		}
		provider, err = openai.NewProvider(aiCfg, openai.WithEmbedder(embedder))
		if err != nil {
			return err
		}
	}
	db.provider = provider

	var store cache.Store
	switch db.config.Cache.Backend {
	case config.CacheMemory:
		store = cache.NewMemoryStore()
	case config.CacheRedis:
		redisStore := cache.NewRedisStore(cache.RedisOptions{
			Addr:     db.config.Cache.RedisAddr,
			Password: db.config.Cache.RedisPassword,
			DB:       db.config.Cache.RedisDB,
		})
		if err := redisStore.Ping(ctx); err != nil {
			db.logger.Warn("embedding cache unreachable, lookups will miss", "addr", db.config.Cache.RedisAddr, "err", err)
		}
		store = redisStore
	default:
		return nil
	}
	db.closers = append(db.closers, store)

	cached, err := cache.NewCachedEmbedder(provider.Embedder(), store,
		cache.WithModel(aiCfg.EmbeddingModel),
		cache.WithTTL(db.config.Cache.TTL),
		cache.WithLogger(db.logger),
	)
	if err != nil {
		return err
	}
	db.provider = &cachedProvider{AIProvider: provider, embedder: cached}
	return nil
}

func (db *Database) openEngine() error {
	policy := db.config.RetryPolicy()

	lexicalRetriever, err := lexical.NewRetriever(db.index, db.corpus(),
		lexical.WithLogger(db.logger),
		lexical.WithRetryPolicy(policy),
	)
	if err != nil {
		return err
	}

	semanticRetriever, err := semantic.NewRetriever(db.provider.Embedder(),
		semantic.WithLogger(db.logger),
		semantic.WithRetryPolicy(policy),
	)
	if err != nil {
		return err
	}

	opts := []match.Option{
		match.WithLogger(db.logger),
		match.WithWeights(db.config.Weights),
		match.WithRetryPolicy(policy),
		match.WithDefaults(db.config.MatchDefaults()),
	}
	if db.config.Match.PoolSize > 0 {
		opts = append(opts, match.WithPoolSize(db.config.Match.PoolSize))
	}

	engine, err := match.NewEngine(db.repos.Candidates, db.repos.Jobs, db.repos.Matches,
		lexicalRetriever, semanticRetriever, opts...)
	if err != nil {
		return err
	}
	db.engine = engine
	return nil
}

func (db *Database) corpus() lexical.StoreCorpus {
	return lexical.StoreCorpus{Jobs: db.repos.Jobs, Candidates: db.repos.Candidates}
}

// Close releases the engine, the AI provider, the index and the store.
func (db *Database) Close() error {
	var errs []error

	if db.engine != nil {
		db.engine.Close()
	}
	if db.provider != nil {
		if err := db.provider.Close(); err != nil {
			db.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	for i := len(db.closers) - 1; i >= 0; i-- {
		if err := db.closers[i].Close(); err != nil {
			db.logger.Error("error closing resource", "err", err)
			errs = append(errs, err)
		}
	}
	if db.repos != nil {
		if err := db.repos.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (db *Database) Config() config.Config {
	return db.config
}

func (db *Database) CandidateRepository() storage.CandidateRepository {
	return db.repos.Candidates
}

func (db *Database) JobRepository() storage.JobRepository {
	return db.repos.Jobs
}

func (db *Database) MatchRepository() storage.MatchRepository {
	return db.repos.Matches
}

// Engine returns the match engine. It stays valid until Close.
func (db *Database) Engine() *match.Engine {
	return db.engine
}

// RebuildIndex re-indexes every candidate and active job.
func (db *Database) RebuildIndex(ctx context.Context) (int, error) {
	return db.corpus().Rebuild(ctx, db.index)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{
		ingestion.WithLogger(db.logger),
		ingestion.WithRetryPolicy(db.config.RetryPolicy()),
	}, opts...)
	return ingestion.NewPipeline(db.repos.Candidates, db.repos.Jobs, db.index, db.provider, opts...)
}

// NewBatchRunner creates a batch runner over the engine using the batch
// section of the configuration. opts are applied after it.
func (db *Database) NewBatchRunner(opts ...batch.Option) (*batch.Runner, error) {
	opts = append([]batch.Option{
		batch.WithLogger(db.logger),
		batch.WithChunkSize(db.config.Batch.ChunkSize),
		batch.WithChunkDelay(db.config.Batch.ChunkDelay),
		batch.WithConcurrency(db.config.Batch.Concurrency),
	}, opts...)
	return batch.NewRunner(db.engine, db.corpus(), opts...)
}

func (db *Database) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.repos.Candidates, db.repos.Jobs, db.provider.Embedder(), cfg, progress)
}
