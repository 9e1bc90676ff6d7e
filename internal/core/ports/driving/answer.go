package driving

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// AnswerService answers analyst questions over the indexed corpus
type AnswerService interface {
	// Answer retrieves the top-k chunks for the question, generates an
	// answer over them, and reports provenance. Zero retrieved chunks
	// still produce an answer, flagged low-confidence.
	Answer(ctx context.Context, question string, k int) (*domain.QueryResult, error)
}
