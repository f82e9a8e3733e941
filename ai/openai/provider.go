package openai

import (
	"log/slog"

	"github.com/poiesic/talentmatch/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible APIs.
type Provider struct {
	config    *ai.Config
	embedder  ai.Embedder
	extractor *ProfileExtractor
	logger    *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithEmbedder replaces the OpenAI-compatible embedder.
func WithEmbedder(embedder ai.Embedder) ProviderOption {
	return func(p *Provider) {
		p.embedder = embedder
	}
}

// NewProvider creates a Provider from config.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.embedder == nil {
		embedder, err := newEmbedder(config)
		if err != nil {
			return nil, err
		}
		p.embedder = embedder
	}

	extractor, err := newProfileExtractor(config)
	if err != nil {
		return nil, err
	}
	p.extractor = extractor

	return p, nil
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ProfileExtractor returns the resume extraction service.
func (p *Provider) ProfileExtractor() ai.ProfileExtractor {
	return p.extractor
}

// Close releases provider resources.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
