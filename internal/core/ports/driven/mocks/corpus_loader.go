package mocks

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// MockCorpusLoader is a mock implementation of CorpusLoader
type MockCorpusLoader struct {
	documents map[string][]domain.Document
	err       error
}

// NewMockCorpusLoader creates a new MockCorpusLoader
func NewMockCorpusLoader() *MockCorpusLoader {
	return &MockCorpusLoader{
		documents: make(map[string][]domain.Document),
	}
}

func (m *MockCorpusLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents[path], nil
}

// Helper methods for testing

// AddDocuments registers documents returned for a path
func (m *MockCorpusLoader) AddDocuments(path string, docs ...domain.Document) {
	m.documents[path] = append(m.documents[path], docs...)
}

// SetError makes Load fail
func (m *MockCorpusLoader) SetError(err error) {
	m.err = err
}
