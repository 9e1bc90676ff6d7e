package chunking

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// DocumentID derives the stable document identifier from a source path.
// Identical paths always produce identical IDs, so re-running ingestion
// on an unchanged corpus re-indexes in place instead of duplicating.
func DocumentID(sourcePath string) string {
	h := sha1.Sum([]byte(sourcePath))
	return hex.EncodeToString(h[:8])
}

// ChunkID derives the stable chunk identifier for a segment of a document.
func ChunkID(sourcePath string, sequence int) string {
	return DocumentID(sourcePath) + ":" + strconv.Itoa(sequence)
}

// Assemble combines split segments with extracted metadata into chunks.
// Sequence numbers follow segment order, 0-based and gapless, and every
// chunk carries the document metadata unchanged.
//
// Empty segments for a non-empty document signal an upstream chunker
// misconfiguration and fail validation; the caller decides whether to
// skip or abort the document.
func Assemble(doc domain.Document, meta domain.Metadata, segments []Segment) ([]domain.Chunk, error) {
	if len(segments) == 0 {
		if len(doc.RawText) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: no segments for non-empty document %s",
			domain.ErrValidation, doc.SourcePath)
	}

	docID := DocumentID(doc.SourcePath)
	chunks := make([]domain.Chunk, 0, len(segments))
	for i, seg := range segments {
		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(doc.SourcePath, i),
			DocumentID: docID,
			SourcePath: doc.SourcePath,
			Content:    seg.Text,
			Sequence:   i,
			StartChar:  seg.Start,
			EndChar:    seg.End,
			Metadata:   meta,
		})
	}
	return chunks, nil
}
