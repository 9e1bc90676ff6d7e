package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
)

type mockVectorEntry struct {
	chunk     domain.Chunk
	embedding []float32
	vectorID  string
}

// MockVectorIndex is an in-memory mock of VectorIndex keyed by chunk ID.
// Search ranks by dot product, ties broken by ascending chunk ID.
type MockVectorIndex struct {
	mu       sync.RWMutex
	entries  map[string]mockVectorEntry
	upserts  int
	failNext bool
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		entries: make(map[string]mockVectorEntry),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return "", context.DeadlineExceeded
	}

	m.upserts++
	entry, exists := m.entries[chunk.ID]
	vectorID := entry.vectorID
	if !exists {
		vectorID = "vec-" + chunk.ID
	}
	m.entries[chunk.ID] = mockVectorEntry{chunk: chunk, embedding: embedding, vectorID: vectorID}
	return vectorID, nil
}

func (m *MockVectorIndex) Search(ctx context.Context, embedding []float32, k int) ([]domain.IndexedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	results := make([]domain.IndexedChunk, 0, len(m.entries))
	for _, entry := range m.entries {
		score := 0.0
		for i := range entry.embedding {
			if i < len(embedding) {
				score += float64(entry.embedding[i]) * float64(embedding[i])
			}
		}
		results = append(results, domain.IndexedChunk{
			Chunk:    entry.chunk,
			VectorID: entry.vectorID,
			Score:    score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
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

func (m *MockVectorIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MockVectorIndex) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]mockVectorEntry)
	return nil
}

// Helper methods for testing

// SetFailNext makes the next Upsert or Search call fail
func (m *MockVectorIndex) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// Upserts returns how many upsert calls were made
func (m *MockVectorIndex) Upserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

// Get returns the stored chunk for a chunk ID
func (m *MockVectorIndex) Get(chunkID string) (domain.Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[chunkID]
	return entry.chunk, ok
}
