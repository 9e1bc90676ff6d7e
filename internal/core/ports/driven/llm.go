package driven

import (
	"context"
)

// LLMService provides the external text-completion capability.
// Callers treat it as a black box; retry policy lives with the caller.
type LLMService interface {
	// Complete generates a completion for the given prompt
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
