package semantic

import "errors"

var (
	// ErrEmbedderRequired is returned when a Retriever is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyEmbedding is returned when the embedder answers with a zero-length vector.
	ErrEmptyEmbedding = errors.New("embedder returned an empty vector")
)
