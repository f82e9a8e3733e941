package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/retry"
	"github.com/poiesic/talentmatch/semantic"
	"github.com/poiesic/talentmatch/storage"
)

// BatchProcessor handles embedding generation for batches of records.
type BatchProcessor struct {
	candidates     storage.CandidateRepository
	jobs           storage.JobRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(candidates storage.CandidateRepository, jobs storage.JobRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		candidates:     candidates,
		jobs:           jobs,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// embed generates normalized embeddings for texts.
func (bp *BatchProcessor) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := retry.WithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}
	for i := range embeddings {
		embeddings[i] = semantic.Normalize(embeddings[i])
	}
	return embeddings, nil
}

// ProcessCandidates re-embeds a batch of candidate profiles and stores them.
func (bp *BatchProcessor) ProcessCandidates(ctx context.Context, candidates []*core.CandidateProfile) error {
	if len(candidates) == 0 {
		return nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.SearchText()
	}
	embeddings, err := bp.embed(ctx, texts)
	if err != nil {
		return err
	}
	for i := range candidates {
		candidates[i].Vector = embeddings[i]
	}

	if _, err := bp.candidates.SaveCandidates(ctx, candidates...); err != nil {
		return fmt.Errorf("failed to update candidates: %w", err)
	}
	return nil
}

// ProcessJobs re-embeds a batch of job postings and stores them.
func (bp *BatchProcessor) ProcessJobs(ctx context.Context, jobs []*core.JobPosting) error {
	if len(jobs) == 0 {
		return nil
	}

	texts := make([]string, len(jobs))
	for i, j := range jobs {
		texts[i] = j.SearchText()
	}
	embeddings, err := bp.embed(ctx, texts)
	if err != nil {
		return err
	}
	for i := range jobs {
		jobs[i].Vector = embeddings[i]
	}

	if _, err := bp.jobs.SaveJobs(ctx, jobs...); err != nil {
		return fmt.Errorf("failed to update jobs: %w", err)
	}
	return nil
}
