package driving

import (
	"context"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// ResultService accumulates query results and writes them through
// the configured sinks
type ResultService interface {
	// Record buffers one result
	Record(result *domain.QueryResult)

	// Flush writes all buffered results and reports how many were
	// written and how many failed
	Flush(ctx context.Context) (written int, failed int, err error)
}
