package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conflictlab/micrag/internal/chunking"
	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
	"github.com/conflictlab/micrag/internal/core/ports/driving"
	"github.com/conflictlab/micrag/internal/extract"
)

// headerLines is how many leading content lines are scanned for
// metadata when the filename carries none.
const headerLines = 5

// Ensure IngestOrchestrator implements IngestService
var _ driving.IngestService = (*IngestOrchestrator)(nil)

// Indexer accepts assembled chunks for vector indexing
type Indexer interface {
	Index(ctx context.Context, chunks []domain.Chunk) ([]domain.IndexedChunk, error)
}

// IngestOrchestrator coordinates the ingestion pipeline:
// load -> extract metadata -> split -> assemble -> persist -> index.
// Documents are independent, so ingestion fans out across them;
// per-chunk upserts stay atomic inside the vector index.
type IngestOrchestrator struct {
	loader        driven.CorpusLoader
	documentStore driven.DocumentStore
	extractor     *extract.Extractor
	chunker       *chunking.Chunker
	indexer       Indexer
	logger        *slog.Logger
	concurrency   int
}

// IngestConfig holds dependencies for IngestOrchestrator.
// DocumentStore may be nil when chunk persistence is not configured.
type IngestConfig struct {
	Loader        driven.CorpusLoader
	DocumentStore driven.DocumentStore
	Extractor     *extract.Extractor
	Chunker       *chunking.Chunker
	Indexer       Indexer
	Logger        *slog.Logger
	Concurrency   int
}

// NewIngestOrchestrator creates a new ingest orchestrator.
func NewIngestOrchestrator(cfg IngestConfig) *IngestOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &IngestOrchestrator{
		loader:        cfg.Loader,
		documentStore: cfg.DocumentStore,
		extractor:     cfg.Extractor,
		chunker:       cfg.Chunker,
		indexer:       cfg.Indexer,
		logger:        logger,
		concurrency:   concurrency,
	}
}

// IngestPath ingests every corpus file under path. A document that
// fails validation is skipped and counted; the rest of the corpus
// continues. Configuration errors abort the run.
func (o *IngestOrchestrator) IngestPath(ctx context.Context, path string) (*domain.IngestStats, error) {
	docs, err := o.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}

	stats := &domain.IngestStats{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			indexed, err := o.IngestDocument(gctx, doc)

			mu.Lock()
			defer mu.Unlock()
			stats.Documents++

			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				// Misconfiguration affects every document equally
				return err
			case errors.Is(err, domain.ErrValidation):
				stats.Skipped++
				o.logger.Warn("skipping document", "path", doc.SourcePath, "error", err)
			case err != nil:
				stats.Errors++
				o.logger.Warn("failed to ingest document", "path", doc.SourcePath, "error", err)
			default:
				stats.Chunks += len(indexed)
				stats.Indexed += len(indexed)
				if len(indexed) > 0 && !indexed[0].Chunk.Metadata.Matched() {
					stats.Unmatched++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	o.logger.Info("ingestion finished",
		"path", path,
		"documents", stats.Documents,
		"chunks", stats.Chunks,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	return stats, nil
}

// IngestDocument runs the pipeline for one document and returns the
// indexed chunks.
func (o *IngestOrchestrator) IngestDocument(ctx context.Context, doc domain.Document) ([]domain.IndexedChunk, error) {
	if doc.ID == "" {
		doc.ID = chunking.DocumentID(doc.SourcePath)
	}

	// Filename first; yearly corpus files carry metadata in their
	// leading content instead.
	meta := o.extractor.Extract(doc.SourcePath)
	if !meta.Matched() {
		meta = o.extractor.Extract(leadingContent(doc.RawText))
	}
	doc.Metadata = meta
	doc.IngestedAt = time.Now()

	segments, err := o.chunker.Split(doc.RawText)
	if err != nil {
		return nil, err
	}

	chunks, err := chunking.Assemble(doc, meta, segments)
	if err != nil {
		return nil, err
	}

	if o.documentStore != nil {
		if err := o.documentStore.SaveDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("save document %s: %w", doc.SourcePath, err)
		}
		if err := o.documentStore.SaveChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("save chunks for %s: %w", doc.SourcePath, err)
		}
	}

	return o.indexer.Index(ctx, chunks)
}

// leadingContent returns the first few lines of a document body
func leadingContent(text string) string {
	lines := strings.SplitN(text, "\n", headerLines+1)
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}
	return strings.Join(lines, "\n")
}
