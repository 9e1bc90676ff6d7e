package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// MockDocumentStore is an in-memory mock of DocumentStore
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	chunks    map[string][]domain.Chunk
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

func (m *MockDocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *doc
	m.documents[doc.ID] = &copied
	return nil
}

func (m *MockDocumentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		existing := m.chunks[chunk.DocumentID]
		replaced := false
		for i := range existing {
			if existing[i].ID == chunk.ID {
				existing[i] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, chunk)
		}
		m.chunks[chunk.DocumentID] = existing
	}
	return nil
}

func (m *MockDocumentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *MockDocumentStore) GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunks := make([]domain.Chunk, len(m.chunks[documentID]))
	copy(chunks, m.chunks[documentID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Sequence < chunks[j].Sequence })
	return chunks, nil
}

func (m *MockDocumentStore) CountDocuments(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}

func (m *MockDocumentStore) Close() error {
	return nil
}
