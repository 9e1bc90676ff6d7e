package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Retrieval.TopK != 10 {
		t.Errorf("expected top_k 10, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Results.CSVPath != "results/military_casualties.csv" {
		t.Errorf("unexpected results path: %s", cfg.Results.CSVPath)
	}
	if cfg.Embedding.Provider != "openai" || cfg.Embedding.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
corpus:
  path: /data/mic
chunking:
  size: 500
  overlap: 50
retrieval:
  top_k: 3
  question: "What happened at the border?"
embedding:
  provider: ollama
  model: nomic-embed-text
  base_url: http://localhost:11434
redis:
  addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Corpus.Path != "/data/mic" {
		t.Errorf("unexpected corpus path: %s", cfg.Corpus.Path)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("unexpected chunking: %+v", cfg.Chunking)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("unexpected top_k: %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Question != "What happened at the border?" {
		t.Errorf("unexpected question: %s", cfg.Retrieval.Question)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("unexpected provider: %s", cfg.Embedding.Provider)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr)
	}

	// Unspecified fields still get defaults
	if cfg.Retrieval.MaxContextChars != 12000 {
		t.Errorf("expected default max_context_chars, got %d", cfg.Retrieval.MaxContextChars)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected default llm provider, got %s", cfg.LLM.Provider)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunking: ["), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEmbeddingSettings_ResolvesKeyFromEnv(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "sk-secret")

	cfg := Default()
	cfg.Embedding.APIKeyEnv = "TEST_EMBED_KEY"
	cfg.Embedding.Model = "text-embedding-3-small"

	settings := cfg.EmbeddingSettings()
	if settings.APIKey != "sk-secret" {
		t.Errorf("expected key from env, got %q", settings.APIKey)
	}
	if settings.Provider != domain.AIProviderOpenAI {
		t.Errorf("unexpected provider: %s", settings.Provider)
	}
	if !settings.IsConfigured() {
		t.Error("expected configured settings")
	}
}

func TestLLMSettings_UnsetKeyLeavesUnconfigured(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKeyEnv = "MICRAG_TEST_UNSET_KEY"

	settings := cfg.LLMSettings()
	if settings.IsConfigured() {
		t.Error("expected unconfigured settings without an API key")
	}
}
