// Package gemini implements ai.Embedder with the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/talentmatch/ai"
	"google.golang.org/genai"
)

// maxTextBytes keeps requests under the model's input token limit.
const maxTextBytes = 40000

// contentEmbedder is the subset of *genai.Models used by Embedder.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder implements ai.Embedder against the Gemini API.
type Embedder struct {
	models contentEmbedder
	model  string
	logger *slog.Logger
}

// NewEmbedder creates a Gemini embedder from config. The config must select
// the gemini backend and carry an API key.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.EmbeddingBackend != ai.BackendGemini {
		return nil, fmt.Errorf("%w: backend %q is not gemini", ai.ErrInvalidConfig, config.EmbeddingBackend)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return newEmbedder(client.Models, config.EmbeddingModel), nil
}

func newEmbedder(models contentEmbedder, model string) *Embedder {
	return &Embedder{
		models: models,
		model:  model,
		logger: slog.Default().With("component", "gemini-embedder", "model", model),
	}
}

// EmbedText generates an embedding for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for texts in one request, in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if len(text) > maxTextBytes {
			text = text[:maxTextBytes]
		}
		contents = append(contents, genai.Text(text)...)
	}

	e.logger.Debug("generating embeddings", "count", len(texts))
	result, err := e.models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("%w: %d embeddings for %d texts", ai.ErrEmbedding, got, len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ai.ErrEmbedding, i)
		}
		vectors[i] = embedding.Values
	}
	return vectors, nil
}
