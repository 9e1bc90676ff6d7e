// Package memindex is a brute-force in-memory vector index using cosine
// similarity. It serves local runs and tests; corpus-scale deployments
// hold the whole index in memory comfortably, the MIC corpus is small.
package memindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Compile-time check
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunk     domain.Chunk
	vectorID  string
	embedding []float32
	norm      float64
}

// Index stores embeddings keyed by chunk ID.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: make(map[string]*entry)}
}

// Upsert stores a chunk's embedding. Re-indexing an existing chunk ID
// overwrites the entry but keeps its vector ID stable.
func (i *Index) Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	vectorID := ""
	if existing, ok := i.entries[chunk.ID]; ok {
		vectorID = existing.vectorID
	} else {
		vectorID = uuid.NewString()
	}

	i.entries[chunk.ID] = &entry{
		chunk:     chunk,
		vectorID:  vectorID,
		embedding: embedding,
		norm:      l2norm(embedding),
	}
	return vectorID, nil
}

// Search scores every entry by cosine similarity and returns the top k,
// descending by score with chunk ID breaking ties ascending.
func (i *Index) Search(ctx context.Context, embedding []float32, k int) ([]domain.IndexedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queryNorm := l2norm(embedding)

	i.mu.RLock()
	results := make([]domain.IndexedChunk, 0, len(i.entries))
	for _, e := range i.entries {
		results = append(results, domain.IndexedChunk{
			Chunk:    e.chunk,
			VectorID: e.vectorID,
			Score:    cosine(embedding, queryNorm, e.embedding, e.norm),
		})
	}
	i.mu.RUnlock()

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Chunk.ID < results[b].Chunk.ID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of indexed chunks.
func (i *Index) Count(ctx context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries), nil
}

// Clear removes all entries.
func (i *Index) Clear(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = make(map[string]*entry)
	return nil
}

func l2norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	dot := 0.0
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
