package enhance

import "errors"

var (
	// ErrAwaitTimeout means polling ran out and the resume was marked as failed.
	ErrAwaitTimeout = errors.New("enhancement timed out")
	ErrEmptyText    = errors.New("text is required")
	// ErrProvider wraps failures from the LLM provider.
	ErrProvider = errors.New("enhancement provider failed")
)
