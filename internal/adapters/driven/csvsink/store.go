// Package csvsink persists query results as CSV for downstream analysis.
package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*Store)(nil)

var resultHeader = []string{"question", "answer", "country_code", "publication_date", "supporting_chunk_ids"}

// Store appends query results to a CSV file, writing the header only
// when the file is created.
type Store struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewStore opens (or creates) the CSV file at path for appending.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating results directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening results file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat results file: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(resultHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	return &Store{file: file, writer: writer}, nil
}

// Append writes one result row. Metadata columns come from the
// top-ranked matched chunk; unmatched retrievals leave them empty.
func (s *Store) Append(ctx context.Context, result *domain.QueryResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	countryCode, published := topMatchedMetadata(result.RetrievedMetadata)

	row := []string{
		result.Question,
		result.Answer,
		countryCode,
		published,
		strings.Join(result.SupportingChunkIDs, ";"),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("writing result row: %w", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flushing result row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func topMatchedMetadata(metadata []domain.Metadata) (countryCode, published string) {
	for _, m := range metadata {
		if !m.Matched() {
			continue
		}
		return m.CountryCode, m.PublishedISO()
	}
	return "", ""
}
