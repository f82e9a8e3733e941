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


package ai

import (
	"fmt"
	"strings"
)

// Embedding backends understood by Config.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingBackend selects the embedding implementation: "openai" or "gemini".
	// Default: "openai"
	EmbeddingBackend string

	// EmbeddingHost is the base URL for an OpenAI-compatible embedding API.
	// Example: "http://localhost:11434/v1" for a local server
	EmbeddingHost string

	// ExtractorHost is the base URL for an OpenAI-compatible chat API used
	// for resume extraction.
	ExtractorHost string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small", "gemini-embedding-001"
	EmbeddingModel string

	// ExtractorModel is the model identifier used for resume extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExtractorModel string

	// APIKey authenticates against hosted backends. Local OpenAI-compatible
	// servers accept any token; Gemini requires a real key.
	APIKey string

	// MaxResumeChars truncates resume text sent to the extractor.
	// Default: 12000
	MaxResumeChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingBackend selects the embedding backend.
func WithEmbeddingBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingBackend = backend
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithExtractorHost sets the extraction service host URL.
func WithExtractorHost(host string) ConfigOption {
	return func(c *Config) {
		c.ExtractorHost = host
	}
}

// WithHost sets both embedding and extractor hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ExtractorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExtractorModel sets the extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithAPIKey sets the API key for hosted backends.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMaxResumeChars bounds the resume text sent to the extractor.
func WithMaxResumeChars(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResumeChars = n
	}
}

// DefaultConfig returns a Config for local OpenAI-compatible services.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingBackend: BackendOpenAI,
		EmbeddingHost:    defaultHost,
		ExtractorHost:    defaultHost,
		EmbeddingModel:   "embeddinggemma",
		ExtractorModel:   "qwen2.5:3b",
		MaxResumeChars:   12000,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingBackend(BackendGemini),
//	    WithEmbeddingModel("gemini-embedding-001"),
//	    WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form. OpenAI-compatible
// hosts get a /v1 suffix when it is missing.
func (c *Config) Normalize() {
	c.EmbeddingBackend = strings.ToLower(strings.TrimSpace(c.EmbeddingBackend))
	if c.EmbeddingBackend == "" {
		c.EmbeddingBackend = BackendOpenAI
	}
	c.EmbeddingHost = withV1Suffix(c.EmbeddingHost)
	c.ExtractorHost = withV1Suffix(c.ExtractorHost)
}

func withV1Suffix(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate normalizes the configuration and checks it is complete.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.EmbeddingBackend {
	case BackendOpenAI:
		if c.EmbeddingHost == "" {
			return fmt.Errorf("%w: EmbeddingHost is required", ErrInvalidConfig)
		}
	case BackendGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w: APIKey is required for the gemini backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedding backend %q", ErrInvalidConfig, c.EmbeddingBackend)
	}
	if c.ExtractorHost == "" {
		return fmt.Errorf("%w: ExtractorHost is required", ErrInvalidConfig)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
	}
	if c.ExtractorModel == "" {
		return fmt.Errorf("%w: ExtractorModel is required", ErrInvalidConfig)
	}
	if c.MaxResumeChars < 1 {
		return fmt.Errorf("%w: MaxResumeChars must be positive", ErrInvalidConfig)
	}
	return nil
}
