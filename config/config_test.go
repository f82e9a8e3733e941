package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/talentmatch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg, res := NormalizeAndValidate(Default())
	assert.True(t, res.OK(), "errors: %v", res.Errors)
	assert.NoError(t, res.Err())
	assert.Equal(t, IndexMemory, cfg.Storage.Index)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talentmatch.yaml")
	data := `
storage:
  path: /var/lib/talentmatch
  index: SQLite
ai:
  backend: gemini
  api_key: secret
  embedding_model: gemini-embedding-001
cache:
  backend: redis
  redis_addr: localhost:6379
  ttl: 2h
match:
  limit: 5
  min_score: 0.7
batch:
  chunk_delay: 250ms
weights:
  final:
    hybrid: 0.6
    traditional: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)

	cfg, res := NormalizeAndValidate(loaded)
	require.True(t, res.OK(), "errors: %v", res.Errors)

	assert.Equal(t, "/var/lib/talentmatch", cfg.Storage.Path)
	assert.Equal(t, IndexSQLite, cfg.Storage.Index)
	assert.Equal(t, "/var/lib/talentmatch.fts", cfg.Storage.IndexPath)
	assert.NotEmpty(t, res.Warnings, "defaulted index path is reported")

	assert.Equal(t, ai.BackendGemini, cfg.AI.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Batch.ChunkDelay)

	defaults := cfg.MatchDefaults()
	assert.Equal(t, 5, defaults.Limit)
	assert.Equal(t, 0.7, defaults.MinScore)
	assert.Equal(t, Default().Match.Shortlist, defaults.Shortlist)

	assert.Equal(t, 0.6, cfg.Weights.Final.Hybrid)
	assert.Equal(t, Default().Weights.Hybrid, cfg.Weights.Hybrid, "unset weight groups keep defaults")

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "secret", aiCfg.APIKey)
	assert.Equal(t, "gemini-embedding-001", aiCfg.EmbeddingModel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("match: [not, a, map]"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNormalizeAndValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty path", func(c *Config) { c.Storage.Path = " " }},
		{"unknown index", func(c *Config) { c.Storage.Index = "lucene" }},
		{"unknown ai backend", func(c *Config) { c.AI.Backend = "cohere" }},
		{"gemini without key", func(c *Config) { c.AI.Backend = ai.BackendGemini }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"zero limit", func(c *Config) { c.Match.Limit = 0 }},
		{"min score above one", func(c *Config) { c.Match.MinScore = 1.5 }},
		{"zero shortlist", func(c *Config) { c.Match.Shortlist = 0 }},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"zero chunk", func(c *Config) { c.Batch.ChunkSize = 0 }},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }},
		{"negative weight", func(c *Config) { c.Weights.Hybrid.Lexical = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			_, res := NormalizeAndValidate(cfg)
			assert.False(t, res.OK())
			assert.ErrorIs(t, res.Err(), ErrInvalidConfig)
		})
	}
}

func TestNormalizeAndValidate_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Match.Shortlist = 5
	cfg.Batch.ChunkDelay = 0
	cfg.Weights.Final.Hybrid = 0.9

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.Len(t, res.Warnings, 3)
}

func TestNormalizeAndValidate_InMemorySQLite(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	cfg.Storage.InMemory = true
	cfg.Storage.Index = IndexSQLite

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), "errors: %v", res.Errors)
	assert.Equal(t, ":memory:", out.Storage.IndexPath)
}

func TestRetryPolicy(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxAttempts = 5

	policy := cfg.RetryPolicy()
	assert.Equal(t, 5, policy.MaxAttempts)
	assert.Equal(t, cfg.Retry.Timeout, policy.Timeout)
}
