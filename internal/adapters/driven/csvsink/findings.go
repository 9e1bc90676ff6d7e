package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*FindingsStore)(nil)

var findingsHeader = []string{"date", "death_count", "countries_involved"}

// findingPattern matches one structured block of the model answer:
//
//	- Date: April 3, 2004
//	- Death Count: 12
//	- Countries involved: USA, Iraq
var findingPattern = regexp.MustCompile(`(?s)-\s*Date:\s*(.+?)\n\s*-\s*Death Count:\s*(.+?)\n\s*-\s*Countries involved:\s*(.+?)\n\n`)

// Finding is one casualty record parsed from a model answer.
type Finding struct {
	Date       string
	DeathCount string
	Countries  string
}

// ParseFindings extracts structured casualty records from a model
// answer. Answers that follow none of the expected structure yield an
// empty slice, not an error.
func ParseFindings(answer string) []Finding {
	if answer == "" {
		return nil
	}
	// The pattern needs a terminating blank line per block
	if !strings.HasSuffix(answer, "\n\n") {
		answer += "\n\n"
	}

	matches := findingPattern.FindAllStringSubmatch(answer, -1)
	findings := make([]Finding, 0, len(matches))
	for _, m := range matches {
		findings = append(findings, Finding{
			Date:       strings.TrimSpace(m[1]),
			DeathCount: strings.TrimSpace(m[2]),
			Countries:  strings.TrimSpace(m[3]),
		})
	}
	return findings
}

// FindingsStore appends parsed casualty findings to a CSV file, one row
// per finding. Results whose answers parse to nothing write no rows.
type FindingsStore struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewFindingsStore opens (or creates) the findings CSV at path.
func NewFindingsStore(path string) (*FindingsStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating findings directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening findings file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat findings file: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(findingsHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	return &FindingsStore{file: file, writer: writer}, nil
}

// Append parses the result's answer and writes one row per finding.
func (s *FindingsStore) Append(ctx context.Context, result *domain.QueryResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	findings := ParseFindings(result.Answer)
	if len(findings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range findings {
		if err := s.writer.Write([]string{f.Date, f.DeathCount, f.Countries}); err != nil {
			return fmt.Errorf("writing finding row: %w", err)
		}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flushing finding rows: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *FindingsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
