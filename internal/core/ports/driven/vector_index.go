package driven

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// VectorIndex handles vector storage and similarity search.
// Upsert is atomic per chunk ID: re-indexing an existing ID overwrites
// the prior entry and never duplicates it.
type VectorIndex interface {
	// Upsert stores a chunk's embedding keyed by chunk ID and returns
	// the store-assigned vector ID
	Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) (string, error)

	// Search finds the k most similar chunks, scored descending.
	// Fewer than k entries in the index returns all of them.
	Search(ctx context.Context, embedding []float32, k int) ([]domain.IndexedChunk, error)

	// Count returns the number of indexed chunks
	Count(ctx context.Context) (int, error)

	// Clear removes all entries
	Clear(ctx context.Context) error
}
