package postgres

import (
	"context"
	"strings"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore implements driven.ResultStore using PostgreSQL
type ResultStore struct {
	db *DB
}

// NewResultStore creates a new ResultStore
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db}
}

// Append writes one result
func (s *ResultStore) Append(ctx context.Context, result *domain.QueryResult) error {
	query := `
		INSERT INTO results (question, answer, supporting_chunk_ids, low_confidence, took_ms)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		result.Question,
		result.Answer,
		strings.Join(result.SupportingChunkIDs, ";"),
		result.LowConfidence,
		result.Took.Milliseconds(),
	)
	return err
}

// Close releases the underlying sink
func (s *ResultStore) Close() error {
	return nil // the shared DB pool is closed by its owner
}
