// Package config loads application configuration from YAML with
// environment-resolved secrets.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// CorpusConfig locates the source corpus on disk.
type CorpusConfig struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// ChunkingConfig configures how documents are split into chunks.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig configures the query side of the pipeline.
type RetrievalConfig struct {
	TopK            int    `yaml:"top_k"`
	MaxContextChars int    `yaml:"max_context_chars"`
	Question        string `yaml:"question,omitempty"`
}

// AIServiceConfig configures one AI provider endpoint.
// The API key is resolved from the environment, never stored in YAML.
type AIServiceConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// PostgresConfig configures the optional document store.
// An empty URL disables Postgres persistence.
type PostgresConfig struct {
	URL string `yaml:"url,omitempty"`
}

// RedisConfig configures the optional task queue backend.
// An empty Addr disables background workers.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// ResultsConfig configures result sinks.
type ResultsConfig struct {
	CSVPath      string `yaml:"csv_path"`
	FindingsPath string `yaml:"findings_path,omitempty"`
}

// WorkerConfig configures the background ingestion worker.
type WorkerConfig struct {
	Concurrency    int `yaml:"concurrency"`
	DequeueTimeout int `yaml:"dequeue_timeout"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding AIServiceConfig `yaml:"embedding"`
	LLM       AIServiceConfig `yaml:"llm"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Results   ResultsConfig   `yaml:"results"`
	Worker    WorkerConfig    `yaml:"worker"`

	// IngestConcurrency bounds parallel document ingestion
	IngestConcurrency int `yaml:"ingest_concurrency"`
}

// Load reads a config from path. A missing file returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// EmbeddingSettings resolves the embedding provider settings, reading
// the API key from the configured environment variable.
func (c *AppConfig) EmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: domain.AIProvider(c.Embedding.Provider),
		Model:    c.Embedding.Model,
		APIKey:   os.Getenv(c.Embedding.APIKeyEnv),
		BaseURL:  c.Embedding.BaseURL,
	}
}

// LLMSettings resolves the LLM provider settings, reading the API key
// from the configured environment variable.
func (c *AppConfig) LLMSettings() *domain.LLMSettings {
	return &domain.LLMSettings{
		Provider: domain.AIProvider(c.LLM.Provider),
		Model:    c.LLM.Model,
		APIKey:   os.Getenv(c.LLM.APIKeyEnv),
		BaseURL:  c.LLM.BaseURL,
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "data"
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 1000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 200
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.MaxContextChars == 0 {
		cfg.Retrieval.MaxContextChars = 12000
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = string(domain.AIProviderOpenAI)
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = string(domain.AIProviderOpenAI)
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Results.CSVPath == "" {
		cfg.Results.CSVPath = "results/military_casualties.csv"
	}
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = 2
	}
	if cfg.Worker.DequeueTimeout == 0 {
		cfg.Worker.DequeueTimeout = 5
	}
	if cfg.IngestConcurrency == 0 {
		cfg.IngestConcurrency = 4
	}
}
