package csvsink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	return rows
}

func matchedResult() *domain.QueryResult {
	return &domain.QueryResult{
		Question:           "What happened?",
		Answer:             "- Date: March 20, 2004\n- Death Count: 7\n- Countries involved: USA, Iraq\n\n",
		SupportingChunkIDs: []string{"ab12:0", "ab12:1"},
		RetrievedMetadata: []domain.Metadata{
			{Status: domain.ExtractionUnmatched},
			{
				CountryCode:   "USA",
				PublishedDate: time.Date(2004, 3, 20, 0, 0, 0, 0, time.UTC),
				Status:        domain.ExtractionMatched,
			},
		},
	}
}

func TestStore_HeaderOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(context.Background(), matchedResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "question" || rows[0][4] != "supporting_chunk_ids" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "USA" || rows[1][3] != "2004-03-20" {
		t.Errorf("expected metadata from the top matched chunk, got %v", rows[1])
	}
	if rows[1][4] != "ab12:0;ab12:1" {
		t.Errorf("unexpected chunk IDs: %s", rows[1][4])
	}
}

func TestStore_AppendSkipsHeaderOnExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Append(context.Background(), matchedResult())
	store.Close()

	// Reopen and append again; no second header
	store, err = NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Append(context.Background(), matchedResult())
	store.Close()

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[2][0] == "question" {
		t.Error("header written twice")
	}
}

func TestStore_UnmatchedMetadataLeavesColumnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := matchedResult()
	result.RetrievedMetadata = []domain.Metadata{{Status: domain.ExtractionUnmatched}}
	store.Append(context.Background(), result)
	store.Close()

	rows := readRows(t, path)
	if rows[1][2] != "" || rows[1][3] != "" {
		t.Errorf("expected empty metadata columns, got %v", rows[1])
	}
}

func TestStore_MultilineAnswerSurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := matchedResult()
	store.Append(context.Background(), result)
	store.Close()

	rows := readRows(t, path)
	if rows[1][1] != result.Answer {
		t.Errorf("answer mangled by CSV round trip: %q", rows[1][1])
	}
}
