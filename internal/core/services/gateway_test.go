package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven/mocks"
)

func testChunk(id string, content string) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: "doc-1",
		SourcePath: "data/USA_20230115_report.txt",
		Content:    content,
		Metadata:   domain.Metadata{Status: domain.ExtractionUnmatched},
	}
}

func TestGateway_IndexAndQuery(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), index, nil)

	chunks := []domain.Chunk{
		testChunk("c:0", "troops were killed near the border"),
		testChunk("c:1", "a trade agreement was signed"),
	}
	indexed, err := gateway.Index(context.Background(), chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(indexed) != 2 {
		t.Fatalf("expected 2 indexed chunks, got %d", len(indexed))
	}
	for i, ic := range indexed {
		if ic.VectorID == "" {
			t.Errorf("indexed chunk %d has no vector ID", i)
		}
	}

	results, err := gateway.Query(context.Background(), "border deaths", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by descending score at %d", i)
		}
	}
}

// Fewer chunks stored than requested returns all of them, no padding.
func TestGateway_QueryFewerThanK(t *testing.T) {
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), mocks.NewMockVectorIndex(), nil)

	chunks := []domain.Chunk{
		testChunk("c:0", "first chunk"),
		testChunk("c:1", "second chunk"),
	}
	if _, err := gateway.Index(context.Background(), chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := gateway.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected exactly 2 results for k=5 over 2 chunks, got %d", len(results))
	}
}

func TestGateway_QueryInvalidK(t *testing.T) {
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), mocks.NewMockVectorIndex(), nil)

	for _, k := range []int{0, -1} {
		_, err := gateway.Query(context.Background(), "q", k)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("k=%d: expected ErrInvalidInput, got %v", k, err)
		}
	}
}

// Re-indexing the same chunk ID overwrites instead of duplicating.
func TestGateway_IdempotentReindex(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), index, nil)

	chunk := testChunk("c:0", "original content")
	if _, err := gateway.Index(context.Background(), []domain.Chunk{chunk}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunk.Content = "updated content"
	if _, err := gateway.Index(context.Background(), []domain.Chunk{chunk}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, _ := index.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 entry after re-index, got %d", count)
	}
	stored, ok := index.Get("c:0")
	if !ok || stored.Content != "updated content" {
		t.Errorf("re-index did not overwrite: %+v", stored)
	}
}

// Equal scores order by ascending chunk ID.
func TestGateway_TieBreakByChunkID(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), index, nil)

	// Identical content embeds identically, so all scores tie
	var chunks []domain.Chunk
	for i := 4; i >= 0; i-- {
		chunks = append(chunks, testChunk(fmt.Sprintf("c:%d", i), "identical content"))
	}
	if _, err := gateway.Index(context.Background(), chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := gateway.Query(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score == results[i].Score && results[i-1].Chunk.ID >= results[i].Chunk.ID {
			t.Errorf("tie at %d not broken by ascending chunk ID: %s then %s",
				i, results[i-1].Chunk.ID, results[i].Chunk.ID)
		}
	}
}

func TestGateway_EmbeddingFailureSurfacesRetrievalUnavailable(t *testing.T) {
	embedding := mocks.NewMockEmbeddingService()
	gateway := NewVectorStoreGateway(embedding, mocks.NewMockVectorIndex(), nil)

	embedding.SetFailNext(true)
	_, err := gateway.Index(context.Background(), []domain.Chunk{testChunk("c:0", "text")})
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Errorf("expected ErrRetrievalUnavailable on index, got %v", err)
	}

	embedding.SetFailNext(true)
	_, err = gateway.Query(context.Background(), "q", 3)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Errorf("expected ErrRetrievalUnavailable on query, got %v", err)
	}
}

func TestGateway_IndexEmpty(t *testing.T) {
	gateway := NewVectorStoreGateway(mocks.NewMockEmbeddingService(), mocks.NewMockVectorIndex(), nil)

	indexed, err := gateway.Index(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(indexed) != 0 {
		t.Errorf("expected no indexed chunks, got %d", len(indexed))
	}
}
