package csvsink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func TestParseFindings_MultipleBlocks(t *testing.T) {
	answer := "- Date: March 20, 2004\n- Death Count: 7\n- Countries involved: USA, Iraq\n\n" +
		"- Date: March 21, 2004\n- Death Count: 3\n- Countries involved: Iraq\n\n"

	findings := ParseFindings(answer)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Date != "March 20, 2004" || findings[0].DeathCount != "7" {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
	if findings[1].Countries != "Iraq" {
		t.Errorf("unexpected second finding: %+v", findings[1])
	}
}

func TestParseFindings_MissingTrailingBlankLine(t *testing.T) {
	answer := "- Date: March 20, 2004\n- Death Count: 7\n- Countries involved: USA, Iraq"

	findings := ParseFindings(answer)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
}

func TestParseFindings_Unstructured(t *testing.T) {
	if got := ParseFindings("No relevant casualties were found in the context."); len(got) != 0 {
		t.Errorf("expected no findings, got %d", len(got))
	}
	if got := ParseFindings(""); got != nil {
		t.Error("expected nil for empty answer")
	}
}

func TestParseFindings_TrimsWhitespace(t *testing.T) {
	answer := "- Date:   April 1, 2005 \n - Death Count:  12 \n - Countries involved:  France, Germany \n\n"

	findings := ParseFindings(answer)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Date != "April 1, 2005" || findings[0].DeathCount != "12" || findings[0].Countries != "France, Germany" {
		t.Errorf("fields not trimmed: %+v", findings[0])
	}
}

func TestFindingsStore_WritesOneRowPerFinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.csv")

	store, err := NewFindingsStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := &domain.QueryResult{
		Answer: "- Date: March 20, 2004\n- Death Count: 7\n- Countries involved: USA, Iraq\n\n" +
			"- Date: March 21, 2004\n- Death Count: 3\n- Countries involved: Iraq\n\n",
	}
	if err := store.Append(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "date" || rows[0][2] != "countries_involved" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "7" || rows[2][1] != "3" {
		t.Errorf("unexpected death counts: %v, %v", rows[1], rows[2])
	}
}

func TestFindingsStore_UnparseableAnswerWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.csv")

	store, err := NewFindingsStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(context.Background(), &domain.QueryResult{Answer: "nothing structured"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()

	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
