package driven

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// CorpusLoader reads raw source files into documents.
// Implementations own encoding concerns (the MIC corpus is Latin-1).
type CorpusLoader interface {
	// Load reads the file or directory at path and returns one document
	// per source file, in walk order
	Load(ctx context.Context, path string) ([]domain.Document, error)
}
