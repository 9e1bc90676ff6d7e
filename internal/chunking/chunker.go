// Package chunking splits document text into ordered, overlapping
// segments and assembles them into annotated chunks.
package chunking

import (
	"fmt"
	"strings"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// breakWindow is how far back from a cut point the chunker looks for a
// natural boundary.
const breakWindow = 100

// Segment is a bounded slice of document text.
// Start and End are byte offsets into the original text.
type Segment struct {
	Text  string
	Start int
	End   int
}

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// MaxChunkSize is the maximum characters per chunk
	MaxChunkSize int

	// Overlap is the character overlap between adjacent chunks
	Overlap int

	// PreserveSentences tries to break at sentence boundaries
	PreserveSentences bool

	// PreserveParagraphs tries to break at paragraph boundaries
	PreserveParagraphs bool
}

// DefaultChunkConfig returns the corpus defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize:       1000,
		Overlap:            200,
		PreserveSentences:  true,
		PreserveParagraphs: true,
	}
}

// Chunker splits text into overlapping segments.
type Chunker struct {
	config ChunkConfig
}

// NewChunker creates a chunker with the given config.
func NewChunker(config ChunkConfig) *Chunker {
	return &Chunker{config: config}
}

// Split produces segments covering text with no gaps. Adjacent segments
// share exactly Overlap characters at each boundary; the final segment
// may be shorter than MaxChunkSize. Empty text yields no segments.
// Invalid configuration is reported, never retried or clamped.
func (c *Chunker) Split(text string) ([]Segment, error) {
	if c.config.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d",
			domain.ErrInvalidInput, c.config.MaxChunkSize)
	}
	if c.config.Overlap < 0 || c.config.Overlap >= c.config.MaxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)",
			domain.ErrInvalidInput, c.config.Overlap, c.config.MaxChunkSize)
	}

	if len(text) == 0 {
		return nil, nil
	}

	var segments []Segment
	start := 0

	for {
		end := start + c.config.MaxChunkSize
		if end >= len(text) {
			segments = append(segments, Segment{Text: text[start:], Start: start, End: len(text)})
			break
		}

		// Prefer a natural boundary near the cut point. The break must
		// land after start+Overlap so the next segment still advances.
		if c.config.PreserveSentences || c.config.PreserveParagraphs {
			if b := c.findBreakPoint(text, start, end); b > start+c.config.Overlap {
				end = b
			}
		}

		segments = append(segments, Segment{Text: text[start:end], Start: start, End: end})
		start = end - c.config.Overlap
	}

	return segments, nil
}

// findBreakPoint looks for a good cut inside the window ending at maxEnd.
// Returns -1 when no boundary is found.
func (c *Chunker) findBreakPoint(text string, start, maxEnd int) int {
	searchStart := maxEnd - breakWindow
	if searchStart < start {
		searchStart = start
	}

	window := text[searchStart:maxEnd]

	// Paragraph boundary (double newline) first
	if c.config.PreserveParagraphs {
		if idx := strings.LastIndex(window, "\n\n"); idx != -1 {
			return searchStart + idx + 2
		}
	}

	// Then sentence boundary
	if c.config.PreserveSentences {
		sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
		bestIdx := -1

		for _, ender := range sentenceEnders {
			if idx := strings.LastIndex(window, ender); idx != -1 {
				endPos := idx + len(ender)
				if endPos > bestIdx {
					bestIdx = endPos
				}
			}
		}

		if bestIdx > 0 {
			return searchStart + bestIdx
		}
	}

	return -1
}
