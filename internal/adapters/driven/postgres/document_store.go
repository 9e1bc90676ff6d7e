package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL.
// Note: embeddings live in the vector index, not here
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveDocument creates or updates a document
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, source_path, raw_text, country_code, published_date, extraction_status, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			source_path = EXCLUDED.source_path,
			raw_text = EXCLUDED.raw_text,
			country_code = EXCLUDED.country_code,
			published_date = EXCLUDED.published_date,
			extraction_status = EXCLUDED.extraction_status,
			ingested_at = EXCLUDED.ingested_at
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.SourcePath,
		doc.RawText,
		doc.Metadata.CountryCode,
		nullDate(doc.Metadata.PublishedDate),
		string(doc.Metadata.Status),
		doc.IngestedAt,
	)
	return err
}

// SaveChunks saves a document's chunks in one transaction, upserting by
// chunk ID
func (s *DocumentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunks (id, document_id, source_path, content, sequence, start_char, end_char, country_code, published_date, extraction_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				sequence = EXCLUDED.sequence,
				start_char = EXCLUDED.start_char,
				end_char = EXCLUDED.end_char,
				country_code = EXCLUDED.country_code,
				published_date = EXCLUDED.published_date,
				extraction_status = EXCLUDED.extraction_status
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			_, err = stmt.ExecContext(ctx,
				chunk.ID,
				chunk.DocumentID,
				chunk.SourcePath,
				chunk.Content,
				chunk.Sequence,
				chunk.StartChar,
				chunk.EndChar,
				chunk.Metadata.CountryCode,
				nullDate(chunk.Metadata.PublishedDate),
				string(chunk.Metadata.Status),
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetDocument retrieves a document by ID
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, source_path, raw_text, country_code, published_date, extraction_status, ingested_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	var status string
	var published sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.SourcePath,
		&doc.RawText,
		&doc.Metadata.CountryCode,
		&published,
		&status,
		&doc.IngestedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	doc.Metadata.Status = domain.ExtractionStatus(status)
	if published.Valid {
		doc.Metadata.PublishedDate = published.Time
	}
	return &doc, nil
}

// GetChunksByDocument retrieves a document's chunks ordered by sequence
func (s *DocumentStore) GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	query := `
		SELECT id, document_id, source_path, content, sequence, start_char, end_char, country_code, published_date, extraction_status
		FROM chunks
		WHERE document_id = $1
		ORDER BY sequence ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var status string
		var published sql.NullTime

		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.SourcePath,
			&chunk.Content,
			&chunk.Sequence,
			&chunk.StartChar,
			&chunk.EndChar,
			&chunk.Metadata.CountryCode,
			&published,
			&status,
		)
		if err != nil {
			return nil, err
		}

		chunk.Metadata.Status = domain.ExtractionStatus(status)
		if published.Valid {
			chunk.Metadata.PublishedDate = published.Time
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// CountDocuments returns the total number of documents
func (s *DocumentStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// Close releases the underlying connection
func (s *DocumentStore) Close() error {
	return nil // the shared DB pool is closed by its owner
}

// nullDate maps the zero time to SQL NULL
func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
