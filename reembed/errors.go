package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when a candidate or job repository is not provided.
	ErrRepositoryRequired = errors.New("repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
