package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
	"github.com/conflictlab/micrag/internal/core/ports/driving"
)

// Ensure Recorder implements ResultService
var _ driving.ResultService = (*Recorder)(nil)

// Recorder accumulates query results and writes them through the
// configured sinks on Flush. Failed writes are counted and logged,
// never dropped silently.
type Recorder struct {
	mu       sync.Mutex
	stores   []driven.ResultStore
	pending  []*domain.QueryResult
	recorded int
	failed   int
	logger   *slog.Logger
}

// NewRecorder creates a recorder writing to the given sinks.
func NewRecorder(logger *slog.Logger, stores ...driven.ResultStore) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		stores: stores,
		logger: logger,
	}
}

// Record buffers one result for the next Flush.
func (r *Recorder) Record(result *domain.QueryResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *result
	r.pending = append(r.pending, &copied)
}

// Flush writes all buffered results. A result counts as failed when any
// sink rejects it; the remaining results still flush.
func (r *Recorder) Flush(ctx context.Context) (int, int, error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	var written, failed int
	var errs []error

	for _, result := range pending {
		ok := true
		for _, store := range r.stores {
			if err := store.Append(ctx, result); err != nil {
				ok = false
				errs = append(errs, fmt.Errorf("append result %q: %w", result.Question, err))
				r.logger.Error("failed to persist result", "question", result.Question, "error", err)
			}
		}
		if ok {
			written++
		} else {
			failed++
		}
	}

	r.mu.Lock()
	r.recorded += written
	r.failed += failed
	r.mu.Unlock()

	return written, failed, errors.Join(errs...)
}

// Totals reports cumulative written and failed counts across flushes.
func (r *Recorder) Totals() (written int, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded, r.failed
}
