// Package app runs a single masked field in the terminal.
package app

import "errors"

// Application errors.
var (
	// ErrQuit signals that the user left without submitting.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend indicates New was given a nil backend.
	ErrNoBackend = errors.New("no backend")
)

// errSubmit ends the event loop successfully.
var errSubmit = errors.New("submit")
