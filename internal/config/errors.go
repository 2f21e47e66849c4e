package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownMask indicates no mask has the requested name.
	ErrUnknownMask = errors.New("unknown mask")

	// ErrValidationFailed indicates the file decoded but is not usable.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes one problem found by Validate.
type ValidationError struct {
	// Path locates the offending setting, e.g. "masks[1].pattern".
	Path string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
