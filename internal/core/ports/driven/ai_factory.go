package driven

import "github.com/conflictlab/micrag/internal/core/domain"

// AIServiceFactory creates AI services from provider settings
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service, or (nil, nil)
	// when the settings are absent or incomplete
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateLLMService creates an LLM service, or (nil, nil) when the
	// settings are absent or incomplete
	CreateLLMService(settings *domain.LLMSettings) (LLMService, error)
}
