package ingestion

import "errors"

var (
	// ErrCandidateRepositoryRequired is returned when a candidate repository is not provided.
	ErrCandidateRepositoryRequired = errors.New("candidate repository required")

	// ErrJobRepositoryRequired is returned when a job repository is not provided.
	ErrJobRepositoryRequired = errors.New("job repository required")

	// ErrIndexerRequired is returned when a lexical indexer is not provided.
	ErrIndexerRequired = errors.New("lexical indexer required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyResume is returned when resume text is blank.
	ErrEmptyResume = errors.New("resume text is empty")
)
