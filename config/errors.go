package config

import "errors"

// ErrInvalidConfig is returned when a configuration file cannot be decoded
// or fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")
