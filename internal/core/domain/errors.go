package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a configuration or argument violation
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates a document produced malformed or empty
	// output where content was expected; the document is skipped
	ErrValidation = errors.New("validation failed")

	// ErrRetrievalUnavailable indicates the embedding or vector-store
	// boundary failed or timed out; the caller owns retry policy
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGeneration indicates the text-generation boundary failed or
	// timed out; the caller owns retry policy
	ErrGeneration = errors.New("generation failed")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")
)
