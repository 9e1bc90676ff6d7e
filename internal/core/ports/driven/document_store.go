package driven

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// DocumentStore persists documents and their chunks
type DocumentStore interface {
	// SaveDocument creates or updates a document
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks saves a document's chunks in one transaction,
	// upserting by chunk ID
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunksByDocument retrieves a document's chunks ordered by sequence
	GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// CountDocuments returns the total number of documents
	CountDocuments(ctx context.Context) (int, error)

	// Close releases the underlying connection
	Close() error
}
