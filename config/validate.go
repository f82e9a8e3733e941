package config

import (
	"fmt"
	"strings"

	"github.com/poiesic/talentmatch/ai"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into a single ErrInvalidConfig, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(v.Errors, "; "))
}

// NormalizeAndValidate returns a normalized copy of cfg and the problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	out.Storage.Path = strings.TrimSpace(out.Storage.Path)
	out.Storage.IndexPath = strings.TrimSpace(out.Storage.IndexPath)
	out.Storage.Index = lower(out.Storage.Index)
	if out.Storage.Index == "" {
		out.Storage.Index = IndexMemory
	}
	out.Cache.Backend = lower(out.Cache.Backend)
	if out.Cache.Backend == "" {
		out.Cache.Backend = CacheNone
	}
	out.AI.Backend = lower(out.AI.Backend)

	// ---- storage ----
	if !out.Storage.InMemory && out.Storage.Path == "" {
		res.addErr("storage.path is required unless storage.in_memory=true")
	}
	switch out.Storage.Index {
	case IndexMemory:
	case IndexSQLite:
		if out.Storage.IndexPath == "" {
			if out.Storage.InMemory {
				out.Storage.IndexPath = ":memory:"
			} else {
				out.Storage.IndexPath = out.Storage.Path + ".fts"
			}
			res.addWarn("storage.index_path is empty; using %q", out.Storage.IndexPath)
		}
	default:
		res.addErr("storage.index must be %q or %q, got %q", IndexMemory, IndexSQLite, out.Storage.Index)
	}

	// ---- ai ----
	aiCfg := out.AIConfig()
	if err := aiCfg.Validate(); err != nil {
		res.addErr("ai: %v", err)
	} else {
		out.AI.Backend = aiCfg.EmbeddingBackend
		out.AI.EmbeddingHost = aiCfg.EmbeddingHost
		out.AI.ExtractorHost = aiCfg.ExtractorHost
	}
	if out.AI.Backend == ai.BackendOpenAI && out.AI.APIKey == "" && !strings.Contains(out.AI.EmbeddingHost, "localhost") {
		res.addWarn("ai.api_key is empty for remote host %s", out.AI.EmbeddingHost)
	}

	// ---- cache ----
	switch out.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(out.Cache.RedisAddr) == "" {
			res.addErr("cache.redis_addr is required when cache.backend=redis")
		}
	default:
		res.addErr("cache.backend must be one of none, memory, redis; got %q", out.Cache.Backend)
	}
	if out.Cache.TTL < 0 {
		res.addErr("cache.ttl must be >= 0")
	}

	// ---- match ----
	if out.Match.Limit < 1 {
		res.addErr("match.limit must be >= 1")
	}
	if out.Match.MinScore < 0 || out.Match.MinScore > 1 {
		res.addErr("match.min_score must be within [0,1], got %v", out.Match.MinScore)
	}
	if out.Match.Shortlist < 1 {
		res.addErr("match.shortlist must be >= 1")
	} else if out.Match.Shortlist < out.Match.Limit {
		res.addWarn("match.shortlist (%d) is below match.limit (%d); results will be capped by the shortlist",
			out.Match.Shortlist, out.Match.Limit)
	}
	if out.Match.PoolSize < 0 {
		res.addErr("match.pool_size must be >= 0")
	}

	// ---- retry ----
	if out.Retry.MaxAttempts < 1 {
		res.addErr("retry.max_attempts must be >= 1")
	}
	if out.Retry.BaseDelay < 0 || out.Retry.Timeout < 0 {
		res.addErr("retry delays must be >= 0")
	}
	if out.Retry.Timeout == 0 {
		res.addWarn("retry.timeout is 0; calls to the store and AI services are unbounded")
	}

	// ---- batch ----
	if out.Batch.ChunkSize < 1 {
		res.addErr("batch.chunk_size must be >= 1")
	}
	if out.Batch.Concurrency < 1 {
		res.addErr("batch.concurrency must be >= 1")
	}
	if out.Batch.ChunkDelay < 0 {
		res.addErr("batch.chunk_delay must be >= 0")
	} else if out.Batch.ChunkDelay == 0 {
		res.addWarn("batch.chunk_delay is 0; chunks are not paced")
	}

	// ---- weights ----
	if err := out.Weights.Validate(); err != nil {
		res.addErr("weights: %v", err)
	}
	if t := out.Weights.Traditional; !nearOne(t.Skills + t.Experience + t.Education + t.Location + t.Salary + t.Certifications) {
		res.addWarn("weights.traditional do not sum to 1; traditional scores are not on a 0-1 scale")
	}
	if f := out.Weights.Final; !nearOne(f.Hybrid + f.Traditional) {
		res.addWarn("weights.final do not sum to 1")
	}

	return out, res
}

func nearOne(sum float64) bool {
	return sum > 0.999 && sum < 1.001
}
