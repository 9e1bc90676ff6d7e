package chunking

import (
	"errors"
	"testing"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func testDocument() domain.Document {
	return domain.Document{
		ID:         DocumentID("data/USA_20230115_report.txt"),
		SourcePath: "data/USA_20230115_report.txt",
		RawText:    "Clashes were reported near the border on Sunday morning.",
	}
}

func testMetadata() domain.Metadata {
	return domain.Metadata{
		CountryCode:   "USA",
		PublishedDate: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.ExtractionMatched,
	}
}

func TestAssemble_SequenceAndSpans(t *testing.T) {
	doc := testDocument()
	segments := []Segment{
		{Text: doc.RawText[0:30], Start: 0, End: 30},
		{Text: doc.RawText[20:56], Start: 20, End: 56},
	}

	chunks, err := Assemble(doc, testMetadata(), segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Sequence != i {
			t.Errorf("chunk %d: expected sequence %d, got %d", i, i, chunk.Sequence)
		}
		if chunk.DocumentID != doc.ID {
			t.Errorf("chunk %d: expected document ID %s, got %s", i, doc.ID, chunk.DocumentID)
		}
		if chunk.StartChar != segments[i].Start || chunk.EndChar != segments[i].End {
			t.Errorf("chunk %d: span [%d,%d) does not match segment [%d,%d)",
				i, chunk.StartChar, chunk.EndChar, segments[i].Start, segments[i].End)
		}
	}
}

// Every chunk carries the parent document's metadata unchanged.
func TestAssemble_MetadataPropagation(t *testing.T) {
	doc := testDocument()
	meta := testMetadata()
	segments := []Segment{
		{Text: "a", Start: 0, End: 1},
		{Text: "b", Start: 1, End: 2},
		{Text: "c", Start: 2, End: 3},
	}

	chunks, err := Assemble(doc, meta, segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, chunk := range chunks {
		if chunk.Metadata != meta {
			t.Errorf("chunk %d: metadata %+v differs from document metadata %+v",
				i, chunk.Metadata, meta)
		}
	}
}

func TestAssemble_DeterministicIDs(t *testing.T) {
	doc := testDocument()
	segments := []Segment{{Text: doc.RawText, Start: 0, End: len(doc.RawText)}}

	first, err := Assemble(doc, testMetadata(), segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Assemble(doc, testMetadata(), segments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first[0].ID != second[0].ID {
		t.Errorf("chunk IDs differ across runs: %s vs %s", first[0].ID, second[0].ID)
	}
	if first[0].ID != ChunkID(doc.SourcePath, 0) {
		t.Errorf("chunk ID %s is not derived from (path, sequence)", first[0].ID)
	}
}

func TestAssemble_DistinctDocumentsDistinctIDs(t *testing.T) {
	if ChunkID("a.txt", 0) == ChunkID("b.txt", 0) {
		t.Error("different source paths must yield different chunk IDs")
	}
	if ChunkID("a.txt", 0) == ChunkID("a.txt", 1) {
		t.Error("different sequences must yield different chunk IDs")
	}
}

func TestAssemble_EmptySegmentsNonEmptyDocument(t *testing.T) {
	_, err := Assemble(testDocument(), testMetadata(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAssemble_EmptyDocument(t *testing.T) {
	doc := domain.Document{SourcePath: "data/empty.txt"}
	chunks, err := Assemble(doc, domain.Metadata{Status: domain.ExtractionUnmatched}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty document, got %d", len(chunks))
	}
}
