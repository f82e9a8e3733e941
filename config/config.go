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


// Package config loads the engine configuration file.
//
// A configuration file is YAML. Every section is optional; fields absent
// from the file keep the values of Default.
//
//	storage:
//	  path: ./data/talentmatch
//	  index: sqlite
//	ai:
//	  backend: openai
//	  embedding_host: http://localhost:11434
//	match:
//	  limit: 10
//	  min_score: 0.65
//	weights:
//	  final: {hybrid: 0.6, traditional: 0.4}
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/batch"
	"github.com/poiesic/talentmatch/lexical"
	"github.com/poiesic/talentmatch/match"
	"github.com/poiesic/talentmatch/retry"
	"github.com/poiesic/talentmatch/scoring"
	"gopkg.in/yaml.v3"
)

// Lexical index backends.
const (
	IndexMemory = "memory"
	IndexSQLite = "sqlite"
)

// Embedding cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Storage struct {
	// Path is the BadgerDB directory.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`

	// Index selects the lexical index: "memory" rebuilds a BM25 index from
	// the store at startup, "sqlite" keeps an FTS5 index at IndexPath.
	Index     string `yaml:"index"`
	IndexPath string `yaml:"index_path"`
}

type AI struct {
	Backend        string `yaml:"backend"`
	EmbeddingHost  string `yaml:"embedding_host"`
	ExtractorHost  string `yaml:"extractor_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	ExtractorModel string `yaml:"extractor_model"`
	APIKey         string `yaml:"api_key"`
	MaxResumeChars int    `yaml:"max_resume_chars"`
}

type Cache struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

type Match struct {
	Limit     int     `yaml:"limit"`
	MinScore  float64 `yaml:"min_score"`
	Shortlist int     `yaml:"shortlist"`
	PoolSize  int     `yaml:"pool_size"`
}

type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Batch struct {
	ChunkSize   int           `yaml:"chunk_size"`
	ChunkDelay  time.Duration `yaml:"chunk_delay"`
	Concurrency int           `yaml:"concurrency"`
}

// Config is the complete engine configuration.
type Config struct {
	Storage Storage         `yaml:"storage"`
	AI      AI              `yaml:"ai"`
	Cache   Cache           `yaml:"cache"`
	Match   Match           `yaml:"match"`
	Retry   Retry           `yaml:"retry"`
	Batch   Batch           `yaml:"batch"`
	Weights scoring.Weights `yaml:"weights"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	policy := retry.DefaultPolicy()
	return Config{
		Storage: Storage{
			Path:  "./talentmatch.db",
			Index: IndexMemory,
		},
		AI: AI{
			Backend:        aiDefaults.EmbeddingBackend,
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			ExtractorHost:  aiDefaults.ExtractorHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			ExtractorModel: aiDefaults.ExtractorModel,
			MaxResumeChars: aiDefaults.MaxResumeChars,
		},
		Cache: Cache{
			Backend: CacheNone,
			TTL:     24 * time.Hour,
		},
		Match: Match{
			Limit:     match.DefaultLimit,
			MinScore:  match.DefaultMinScore,
			Shortlist: lexical.DefaultShortlist,
		},
		Retry: Retry{
			MaxAttempts: policy.MaxAttempts,
			BaseDelay:   policy.BaseDelay,
			Timeout:     policy.Timeout,
		},
		Batch: Batch{
			ChunkSize:   batch.DefaultChunkSize,
			ChunkDelay:  batch.DefaultChunkDelay,
			Concurrency: batch.DefaultConcurrency,
		},
		Weights: scoring.DefaultWeights(),
	}
}

// Load reads the YAML file at path over the defaults. The result is not
// validated; pass it through NormalizeAndValidate.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// AIConfig converts the ai section.
func (c Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingBackend(c.AI.Backend),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithExtractorHost(c.AI.ExtractorHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithExtractorModel(c.AI.ExtractorModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithMaxResumeChars(c.AI.MaxResumeChars),
	)
}

func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   c.Retry.BaseDelay,
		Timeout:     c.Retry.Timeout,
	}
}

func (c Config) MatchDefaults() match.Defaults {
	return match.Defaults{
		Limit:     c.Match.Limit,
		MinScore:  c.Match.MinScore,
		Shortlist: c.Match.Shortlist,
	}
}
