package ai

import (
	"context"

	"github.com/poiesic/talentmatch/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe and return the same vector for the
// same input under a fixed model.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ProfileExtractor turns raw resume text into a structured candidate profile.
// Implementations must be thread-safe.
type ProfileExtractor interface {
	// ExtractProfile returns a profile with ResumeText set to text. The
	// profile has no Id; callers assign one. Failures wrap ErrExtraction.
	ExtractProfile(ctx context.Context, text string) (*core.CandidateProfile, error)
}

// AIProvider aggregates AI services that share configuration.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ProfileExtractor returns the resume extraction service.
	ProfileExtractor() ProfileExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}
