package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/talentmatch/ai"
	"github.com/poiesic/talentmatch/core"
	"github.com/poiesic/talentmatch/retry"
	"github.com/poiesic/talentmatch/semantic"
	"github.com/poiesic/talentmatch/storage"
)

// embeddingProcessor generates embeddings for stored records.
type embeddingProcessor struct {
	candidates storage.CandidateRepository
	jobs       storage.JobRepository
	embedder   ai.Embedder
	policy     retry.Policy
	logger     *slog.Logger
}

func newEmbeddingProcessor(candidates storage.CandidateRepository, jobs storage.JobRepository, embedder ai.Embedder, policy retry.Policy, logger *slog.Logger) (*embeddingProcessor, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		candidates: candidates,
		jobs:       jobs,
		embedder:   embedder,
		policy:     policy,
		logger:     logger.With("processor", "embeddings"),
	}, nil
}

func (ep *embeddingProcessor) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := ep.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		embeddings, err = ep.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(embeddings))
	}
	for i := range embeddings {
		embeddings[i] = semantic.Normalize(embeddings[i])
	}
	return embeddings, nil
}

// processCandidates embeds the search text of the given candidates. A record
// whose text changed while its embedding was generated is left for the run
// triggered by that change.
func (ep *embeddingProcessor) processCandidates(ctx context.Context, ids ...core.ID) error {
	slices.Sort(ids)
	records, err := ep.candidates.GetCandidates(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving candidates", "err", err)
		return err
	}
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, c := range records {
		texts[i] = c.SearchText()
	}

	ep.logger.Debug("generating embeddings for candidates", "records", len(texts))
	embeddings, err := ep.embed(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	current, err := ep.candidates.GetCandidates(ctx, ids...)
	if err != nil {
		return err
	}
	byID := make(map[core.ID]*core.CandidateProfile, len(current))
	for _, c := range current {
		byID[c.Id] = c
	}

	updated := make([]*core.CandidateProfile, 0, len(records))
	for i, c := range records {
		latest, ok := byID[c.Id]
		if !ok || latest.SearchText() != texts[i] {
			continue
		}
		latest.Vector = embeddings[i]
		updated = append(updated, latest)
	}
	if len(updated) == 0 {
		return nil
	}
	_, err = ep.candidates.SaveCandidates(ctx, updated...)
	return err
}

// processJobs embeds the search text of the given job postings.
func (ep *embeddingProcessor) processJobs(ctx context.Context, ids ...core.ID) error {
	slices.Sort(ids)
	records, err := ep.jobs.GetJobs(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving jobs", "err", err)
		return err
	}
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, j := range records {
		texts[i] = j.SearchText()
	}

	ep.logger.Debug("generating embeddings for jobs", "records", len(texts))
	embeddings, err := ep.embed(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	current, err := ep.jobs.GetJobs(ctx, ids...)
	if err != nil {
		return err
	}
	byID := make(map[core.ID]*core.JobPosting, len(current))
	for _, j := range current {
		byID[j.Id] = j
	}

	updated := make([]*core.JobPosting, 0, len(records))
	for i, j := range records {
		latest, ok := byID[j.Id]
		if !ok || latest.SearchText() != texts[i] {
			continue
		}
		latest.Vector = embeddings[i]
		updated = append(updated, latest)
	}
	if len(updated) == 0 {
		return nil
	}
	_, err = ep.jobs.SaveJobs(ctx, updated...)
	return err
}
