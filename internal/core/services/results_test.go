package services

import (
	"context"
	"testing"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven/mocks"
)

func sampleResult(question string) *domain.QueryResult {
	return &domain.QueryResult{
		Question:           question,
		Answer:             "- Date: 2023-01-15\n- Death Count: 12\n- Countries involved: USA, Iraq\n\n",
		SupportingChunkIDs: []string{"c:0", "c:1"},
		RetrievedMetadata: []domain.Metadata{
			{CountryCode: "USA", Status: domain.ExtractionMatched},
		},
	}
}

func TestRecorder_RecordAndFlush(t *testing.T) {
	store := mocks.NewMockResultStore()
	recorder := NewRecorder(nil, store)

	recorder.Record(sampleResult("q1"))
	recorder.Record(sampleResult("q2"))

	written, failed, err := recorder.Flush(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 2 || failed != 0 {
		t.Errorf("expected written=2 failed=0, got written=%d failed=%d", written, failed)
	}

	results := store.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 stored results, got %d", len(results))
	}
	if results[0].Question != "q1" || results[1].Question != "q2" {
		t.Errorf("results out of order: %s, %s", results[0].Question, results[1].Question)
	}
}

func TestRecorder_FlushClearsBuffer(t *testing.T) {
	store := mocks.NewMockResultStore()
	recorder := NewRecorder(nil, store)

	recorder.Record(sampleResult("q1"))
	if _, _, err := recorder.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, _, err := recorder.Flush(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 0 {
		t.Errorf("expected empty second flush, got %d written", written)
	}
}

// A sink failure is counted and reported, and later results still flush.
func TestRecorder_FailureCountedNotDropped(t *testing.T) {
	store := mocks.NewMockResultStore()
	recorder := NewRecorder(nil, store)

	recorder.Record(sampleResult("q1"))
	recorder.Record(sampleResult("q2"))
	store.SetFailNext(true)

	written, failed, err := recorder.Flush(context.Background())
	if err == nil {
		t.Error("expected an aggregate error for the failed result")
	}
	if written != 1 || failed != 1 {
		t.Errorf("expected written=1 failed=1, got written=%d failed=%d", written, failed)
	}

	totalWritten, totalFailed := recorder.Totals()
	if totalWritten != 1 || totalFailed != 1 {
		t.Errorf("expected totals 1/1, got %d/%d", totalWritten, totalFailed)
	}
}

func TestRecorder_MultipleSinks(t *testing.T) {
	primary := mocks.NewMockResultStore()
	secondary := mocks.NewMockResultStore()
	recorder := NewRecorder(nil, primary, secondary)

	recorder.Record(sampleResult("q1"))
	written, failed, err := recorder.Flush(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 1 || failed != 0 {
		t.Errorf("expected written=1 failed=0, got %d/%d", written, failed)
	}
	if len(primary.Results()) != 1 || len(secondary.Results()) != 1 {
		t.Error("expected the result in both sinks")
	}
}
