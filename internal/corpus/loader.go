// Package corpus reads raw MIC source files from disk into documents.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/conflictlab/micrag/internal/chunking"
	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
)

// Compile-time check
var _ driven.CorpusLoader = (*FileLoader)(nil)

// DefaultExtensions are the source file extensions loaded from a
// corpus directory. Files with other extensions are skipped.
var DefaultExtensions = []string{".txt"}

// FileLoader loads documents from a file or directory tree.
// Source files are decoded as Latin-1, matching the archive the
// corpus is exported from.
type FileLoader struct {
	extensions map[string]struct{}
	logger     *slog.Logger
}

// FileLoaderConfig holds configuration for a FileLoader.
type FileLoaderConfig struct {
	// Extensions filters which files a directory walk picks up.
	// Defaults to DefaultExtensions. Ignored when Load is given a
	// single file path.
	Extensions []string
	Logger     *slog.Logger
}

// NewFileLoader creates a FileLoader.
func NewFileLoader(cfg FileLoaderConfig) *FileLoader {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLoader{extensions: set, logger: logger}
}

// Load reads the file or directory at path and returns one document per
// source file, in lexical walk order. A single-file path is loaded
// regardless of its extension.
func (l *FileLoader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrNotFound, path, err)
	}

	if !info.IsDir() {
		doc, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		return []domain.Document{doc}, nil
	}

	var docs []domain.Document
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := l.extensions[strings.ToLower(filepath.Ext(p))]; !ok {
			l.logger.Debug("skipping non-corpus file", "path", p)
			return nil
		}
		doc, err := l.loadFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus %s: %w", path, err)
	}

	l.logger.Info("loaded corpus", "path", path, "documents", len(docs))
	return docs, nil
}

func (l *FileLoader) loadFile(path string) (domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	// Latin-1 decoding never fails; every byte maps to a code point.
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return domain.Document{
		ID:         chunking.DocumentID(path),
		SourcePath: path,
		RawText:    string(text),
		IngestedAt: time.Now().UTC(),
	}, nil
}
