package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
	"github.com/conflictlab/micrag/internal/core/ports/driving"
)

// DefaultQuestion is the standing analyst query the corpus was
// collected for.
const DefaultQuestion = "Find dates and death counts related to military forces killed in combat."

// defaultPromptHeader instructs the model to answer only from the
// retrieved context and to emit structured findings.
const defaultPromptHeader = `Answer ONLY using the context below, which includes document metadata.

Use the context to extract the following information in a structured format:
1. Dates on which military forces were killed in combat. You may use the published date to determine the date.
2. A precise figure for the number of deaths, or an approximate range if no precise figure is available.
3. A list of two or more countries involved in the conflict. You may use the country codes to determine the countries involved.

Format your response as follows:
- Date: [Approximate range or YYYY-MM-DD]
- Death Count: [Approximate range or precise figure]
- Countries involved: [List of all countries involved]

Include all possible answers from the context.`

// Ensure RetrievalQAEngine implements AnswerService
var _ driving.AnswerService = (*RetrievalQAEngine)(nil)

// Retriever serves ranked chunks for a question
type Retriever interface {
	Query(ctx context.Context, question string, k int) ([]domain.IndexedChunk, error)
}

// AnswerConfig configures prompt assembly.
type AnswerConfig struct {
	// MaxContextChars bounds the combined retrieved context; the
	// lowest-ranked chunks are dropped first when it would overflow
	MaxContextChars int

	// PromptHeader holds the instruction block placed before the context
	PromptHeader string
}

// DefaultAnswerConfig returns the corpus defaults.
func DefaultAnswerConfig() AnswerConfig {
	return AnswerConfig{
		MaxContextChars: 12000,
		PromptHeader:    defaultPromptHeader,
	}
}

// RetrievalQAEngine answers questions by retrieving relevant chunks and
// conditioning generation on them. It never retries: retrieval and
// generation failures propagate to the caller, who owns retry policy.
type RetrievalQAEngine struct {
	retriever Retriever
	llm       driven.LLMService
	config    AnswerConfig
	logger    *slog.Logger
}

// NewRetrievalQAEngine creates a new engine over the given capabilities.
func NewRetrievalQAEngine(retriever Retriever, llm driven.LLMService, config AnswerConfig, logger *slog.Logger) *RetrievalQAEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxContextChars <= 0 {
		config.MaxContextChars = DefaultAnswerConfig().MaxContextChars
	}
	if config.PromptHeader == "" {
		config.PromptHeader = defaultPromptHeader
	}
	return &RetrievalQAEngine{
		retriever: retriever,
		llm:       llm,
		config:    config,
		logger:    logger,
	}
}

// Answer retrieves the top-k chunks, generates an answer over them, and
// records provenance for exactly the chunks that made it into context.
// Zero retrieved chunks still produce an answer, flagged low-confidence.
func (e *RetrievalQAEngine) Answer(ctx context.Context, question string, k int) (*domain.QueryResult, error) {
	start := time.Now()

	retrieved, err := e.retriever.Query(ctx, question, k)
	if err != nil {
		return nil, err
	}

	included, contextText := e.buildContext(retrieved)

	prompt := e.renderPrompt(question, contextText)
	answer, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	result := &domain.QueryResult{
		Question:           question,
		Answer:             answer,
		SupportingChunkIDs: make([]string, 0, len(included)),
		RetrievedMetadata:  make([]domain.Metadata, 0, len(included)),
		LowConfidence:      len(included) == 0,
		Took:               time.Since(start),
	}
	for _, chunk := range included {
		result.SupportingChunkIDs = append(result.SupportingChunkIDs, chunk.Chunk.ID)
		result.RetrievedMetadata = append(result.RetrievedMetadata, chunk.Chunk.Metadata)
	}

	e.logger.Debug("answered question",
		"retrieved", len(retrieved),
		"included", len(included),
		"low_confidence", result.LowConfidence,
		"took", result.Took,
	)
	return result, nil
}

// buildContext concatenates ranked chunks into a bounded context.
// Chunks dropped by the bound are excluded from provenance. The
// top-ranked chunk is always represented, truncated if necessary.
func (e *RetrievalQAEngine) buildContext(retrieved []domain.IndexedChunk) ([]domain.IndexedChunk, string) {
	var sb strings.Builder
	var included []domain.IndexedChunk

	for _, chunk := range retrieved {
		block := renderChunk(chunk.Chunk)
		if sb.Len()+len(block) > e.config.MaxContextChars {
			if len(included) == 0 {
				sb.WriteString(block[:e.config.MaxContextChars])
				included = append(included, chunk)
			}
			break
		}
		sb.WriteString(block)
		included = append(included, chunk)
	}

	return included, sb.String()
}

// renderChunk formats one chunk with its metadata for the prompt
func renderChunk(chunk domain.Chunk) string {
	published := chunk.Metadata.PublishedISO()
	if published == "" {
		published = "unknown"
	}
	countries := chunk.Metadata.CountryCode
	if countries == "" {
		countries = "unknown"
	}
	return fmt.Sprintf("Article published date: %s\nCountries involved: %s\nContent: %s\n\n",
		published, countries, chunk.Content)
}

func (e *RetrievalQAEngine) renderPrompt(question, contextText string) string {
	var sb strings.Builder
	sb.WriteString(e.config.PromptHeader)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(contextText)
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer (based solely on the context provided, no explanations):\n")
	return sb.String()
}
