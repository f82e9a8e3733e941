package ai

import "errors"

var (
	// ErrExtraction indicates the extractor could not produce a profile.
	ErrExtraction = errors.New("profile extraction failed")

	// ErrEmbedding indicates the embedding backend returned an unusable result.
	ErrEmbedding = errors.New("embedding failed")

	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("invalid ai config")
)
