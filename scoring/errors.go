package scoring

import "errors"

// ErrInvalidWeights indicates a Weights value that failed validation.
var ErrInvalidWeights = errors.New("invalid scoring weights")
