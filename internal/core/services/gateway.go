package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// VectorStoreGateway is the thin contract over the external embedding
// and similarity-search capabilities. It does not retry: failures
// surface as ErrRetrievalUnavailable and the caller owns retry policy.
type VectorStoreGateway struct {
	embedding driven.EmbeddingService
	index     driven.VectorIndex
	logger    *slog.Logger
}

// NewVectorStoreGateway creates a gateway over the given capabilities.
func NewVectorStoreGateway(embedding driven.EmbeddingService, index driven.VectorIndex, logger *slog.Logger) *VectorStoreGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStoreGateway{
		embedding: embedding,
		index:     index,
		logger:    logger,
	}
}

// Index embeds the chunks and upserts them by chunk ID.
// Re-indexing an existing chunk ID overwrites the prior entry.
func (g *VectorStoreGateway) Index(ctx context.Context, chunks []domain.Chunk) ([]domain.IndexedChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := g.embedding.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed %d chunks: %v", domain.ErrRetrievalUnavailable, len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: embedding count %d does not match chunk count %d",
			domain.ErrRetrievalUnavailable, len(embeddings), len(chunks))
	}

	indexed := make([]domain.IndexedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		vectorID, err := g.index.Upsert(ctx, chunk, embeddings[i])
		if err != nil {
			return nil, fmt.Errorf("%w: upsert chunk %s: %v", domain.ErrRetrievalUnavailable, chunk.ID, err)
		}
		indexed = append(indexed, domain.IndexedChunk{Chunk: chunk, VectorID: vectorID})
	}

	g.logger.Debug("indexed chunks", "count", len(indexed))
	return indexed, nil
}

// Query returns up to k chunks ranked by descending similarity.
// A store holding fewer than k chunks returns all of them, unpadded.
// Equal scores are ordered by ascending chunk ID for determinism.
func (g *VectorStoreGateway) Query(ctx context.Context, question string, k int) ([]domain.IndexedChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	embedding, err := g.embedding.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrRetrievalUnavailable, err)
	}

	results, err := g.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrRetrievalUnavailable, err)
	}

	// The index should already rank results, but ordering is part of
	// this contract, so enforce it at the boundary.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Size reports how many chunks the index currently holds.
func (g *VectorStoreGateway) Size(ctx context.Context) (int, error) {
	n, err := g.index.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", domain.ErrRetrievalUnavailable, err)
	}
	return n, nil
}
