package mocks

import (
	"context"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// MockResultStore is an in-memory mock of ResultStore
type MockResultStore struct {
	mu       sync.Mutex
	results  []*domain.QueryResult
	failNext bool
}

// NewMockResultStore creates a new MockResultStore
func NewMockResultStore() *MockResultStore {
	return &MockResultStore{}
}

func (m *MockResultStore) Append(ctx context.Context, result *domain.QueryResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}
	copied := *result
	m.results = append(m.results, &copied)
	return nil
}

func (m *MockResultStore) Close() error {
	return nil
}

// Helper methods for testing

// SetFailNext makes the next Append call fail
func (m *MockResultStore) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// Results returns the appended results in order
func (m *MockResultStore) Results() []*domain.QueryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.QueryResult, len(m.results))
	copy(out, m.results)
	return out
}
