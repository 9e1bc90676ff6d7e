package driving

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// IngestService runs the extract -> chunk -> assemble -> index pipeline
type IngestService interface {
	// IngestPath ingests every corpus file under path.
	// Individual document failures are counted and logged, not fatal.
	IngestPath(ctx context.Context, path string) (*domain.IngestStats, error)

	// IngestDocument runs the pipeline for a single document
	IngestDocument(ctx context.Context, doc domain.Document) ([]domain.IndexedChunk, error)
}
