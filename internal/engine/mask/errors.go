package mask

import "errors"

// Errors returned by mask operations.
var (
	// ErrRejected indicates no remaining slot accepts the inserted text.
	// The model is left unchanged.
	ErrRejected = errors.New("mask rejected input")

	// ErrInvalidPattern indicates a pattern string could not be parsed.
	ErrInvalidPattern = errors.New("invalid mask pattern")

	// ErrInvalidClass indicates a slot character class did not compile.
	ErrInvalidClass = errors.New("invalid slot class")
)
