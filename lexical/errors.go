package lexical

import "errors"

var (
	// ErrRankerRequired is returned when a Retriever is built without a Ranker.
	ErrRankerRequired = errors.New("lexical ranker is required")

	// ErrCorpusRequired is returned when a Retriever is built without a CorpusLister.
	ErrCorpusRequired = errors.New("corpus lister is required")

	// ErrInvalidScope indicates an unknown corpus scope.
	ErrInvalidScope = errors.New("invalid corpus scope")

	// ErrCorpusUnavailable indicates the fallback corpus listing failed.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
)
