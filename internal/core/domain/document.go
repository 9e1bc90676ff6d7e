package domain

import (
	"time"
)

// ExtractionStatus reports whether a metadata pattern matched an identifier
type ExtractionStatus string

const (
	// ExtractionMatched means a recognized pattern captured metadata
	ExtractionMatched ExtractionStatus = "matched"

	// ExtractionUnmatched means no pattern matched; the document still ingests
	ExtractionUnmatched ExtractionStatus = "unmatched"
)

// Metadata holds the structured fields extracted from a document's
// filename or leading content. Fields are unset when Status is unmatched.
type Metadata struct {
	CountryCode   string           `json:"country_code,omitempty"`
	PublishedDate time.Time        `json:"published_date,omitempty"`
	Status        ExtractionStatus `json:"status"`
}

// Matched reports whether extraction captured any metadata
func (m Metadata) Matched() bool {
	return m.Status == ExtractionMatched
}

// PublishedISO returns the publication date in ISO form, or "" when unset
func (m Metadata) PublishedISO() string {
	if m.PublishedDate.IsZero() {
		return ""
	}
	return m.PublishedDate.Format("2006-01-02")
}

// Document represents a single source file from the MIC corpus
type Document struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	RawText    string    `json:"raw_text"`
	Metadata   Metadata  `json:"metadata"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Chunk represents an indexable segment of a document.
// StartChar/EndChar are byte offsets into the parent document's RawText.
type Chunk struct {
	ID         string   `json:"id"`
	DocumentID string   `json:"document_id"`
	SourcePath string   `json:"source_path"`
	Content    string   `json:"content"`
	Sequence   int      `json:"sequence"` // Chunk position within document
	StartChar  int      `json:"start_char"`
	EndChar    int      `json:"end_char"`
	Metadata   Metadata `json:"metadata"`
}

// IndexedChunk is a chunk the vector store has accepted.
// VectorID is the store-assigned identifier and is opaque to callers.
// Score is populated on the query path only.
type IndexedChunk struct {
	Chunk    Chunk   `json:"chunk"`
	VectorID string  `json:"vector_id"`
	Score    float64 `json:"score,omitempty"`
}

// QueryResult is the outcome of one retrieval-augmented answer
type QueryResult struct {
	Question           string        `json:"question"`
	Answer             string        `json:"answer"`
	SupportingChunkIDs []string      `json:"supporting_chunk_ids"`
	RetrievedMetadata  []Metadata    `json:"retrieved_metadata"`
	LowConfidence      bool          `json:"low_confidence"`
	Took               time.Duration `json:"took"`
}

// IngestStats tracks per-run ingestion outcomes.
// Skipped and Errors must account for every document not fully indexed.
type IngestStats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Indexed   int `json:"indexed"`
	Unmatched int `json:"unmatched"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}
