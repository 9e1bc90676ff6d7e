package driven

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// ResultStore persists query results for downstream analysis
type ResultStore interface {
	// Append writes one result; implementations must not drop results
	// silently on partial failure
	Append(ctx context.Context, result *domain.QueryResult) error

	// Close flushes and releases the underlying sink
	Close() error
}
