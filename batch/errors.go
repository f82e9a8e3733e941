package batch

import "errors"

var (
	// ErrMatcherRequired is returned when no matcher is provided.
	ErrMatcherRequired = errors.New("matcher required")

	// ErrSourceRequired is returned when no entity source is provided.
	ErrSourceRequired = errors.New("entity source required")

	// ErrSourceUnavailable is returned when the query entities cannot be listed.
	ErrSourceUnavailable = errors.New("entity source unavailable")

	// ErrInvalidOption is returned for a non-positive chunk size or concurrency,
	// or a negative chunk delay.
	ErrInvalidOption = errors.New("invalid batch option")
)
