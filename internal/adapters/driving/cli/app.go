package cli

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/conflictlab/micrag/internal/adapters/driven/ai"
	"github.com/conflictlab/micrag/internal/adapters/driven/csvsink"
	"github.com/conflictlab/micrag/internal/adapters/driven/memindex"
	"github.com/conflictlab/micrag/internal/adapters/driven/postgres"
	redisqueue "github.com/conflictlab/micrag/internal/adapters/driven/queue/redis"
	"github.com/conflictlab/micrag/internal/chunking"
	"github.com/conflictlab/micrag/internal/config"
	"github.com/conflictlab/micrag/internal/core/domain"
	"github.com/conflictlab/micrag/internal/core/ports/driven"
	"github.com/conflictlab/micrag/internal/core/services"
	"github.com/conflictlab/micrag/internal/corpus"
	"github.com/conflictlab/micrag/internal/extract"
	"github.com/conflictlab/micrag/internal/runtime"
)

// App holds the wired application graph for one command invocation.
type App struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Runtime  *runtime.Services
	Gateway  *services.VectorStoreGateway
	Ingest   *services.IngestOrchestrator
	Engine   *services.RetrievalQAEngine
	Recorder *services.Recorder
	Queue    driven.TaskQueue

	db          *postgres.DB
	redisClient *goredis.Client
	sinks       []driven.ResultStore
}

// buildApp constructs the application from loaded configuration.
// External backends (Postgres, Redis) attach only when configured.
func buildApp(ctx context.Context) (*App, error) {
	cfg := appConfig

	rt := runtime.NewServices(domain.NewRuntimeConfig())
	factory := ai.NewFactory()

	embedding, err := factory.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}
	rt.SetEmbeddingService(embedding)

	llm, err := factory.CreateLLMService(cfg.LLMSettings())
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("llm service: %w", err)
	}
	rt.SetLLMService(llm)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Runtime: rt,
	}

	index := memindex.New()
	app.Gateway = services.NewVectorStoreGateway(embedding, index, logger)

	var documentStore driven.DocumentStore
	if cfg.Postgres.URL != "" {
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Postgres.URL))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		app.db = db
		if err := db.InitSchema(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		documentStore = postgres.NewDocumentStore(db)
		app.sinks = append(app.sinks, postgres.NewResultStore(db))
	}

	csvStore, err := csvsink.NewStore(cfg.Results.CSVPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("results csv: %w", err)
	}
	app.sinks = append(app.sinks, csvStore)

	if cfg.Results.FindingsPath != "" {
		findings, err := csvsink.NewFindingsStore(cfg.Results.FindingsPath)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("findings csv: %w", err)
		}
		app.sinks = append(app.sinks, findings)
	}
	app.Recorder = services.NewRecorder(logger, app.sinks...)

	loader := corpus.NewFileLoader(corpus.FileLoaderConfig{
		Extensions: cfg.Corpus.Extensions,
		Logger:     logger,
	})

	app.Ingest = services.NewIngestOrchestrator(services.IngestConfig{
		Loader:        loader,
		DocumentStore: documentStore,
		Extractor:     extract.NewExtractor(),
		Chunker: chunking.NewChunker(chunking.ChunkConfig{
			MaxChunkSize:       cfg.Chunking.Size,
			Overlap:            cfg.Chunking.Overlap,
			PreserveSentences:  true,
			PreserveParagraphs: true,
		}),
		Indexer:     app.Gateway,
		Logger:      logger,
		Concurrency: cfg.IngestConcurrency,
	})

	app.Engine = services.NewRetrievalQAEngine(app.Gateway, llm, services.AnswerConfig{
		MaxContextChars: cfg.Retrieval.MaxContextChars,
	}, logger)

	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		queue, err := redisqueue.NewQueue(client, "")
		if err != nil {
			client.Close()
			app.Close()
			return nil, fmt.Errorf("redis queue: %w", err)
		}
		app.redisClient = client
		app.Queue = queue
	}

	return app, nil
}

// Close releases every attached backend.
func (a *App) Close() {
	for _, sink := range a.sinks {
		if err := sink.Close(); err != nil {
			a.Logger.Warn("closing result sink", "error", err)
		}
	}
	if a.Queue != nil {
		_ = a.Queue.Close()
	}
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.Runtime != nil {
		_ = a.Runtime.Close()
	}
}

// question returns the configured analyst question, falling back to the
// built-in default.
func (a *App) question() string {
	if a.Config.Retrieval.Question != "" {
		return a.Config.Retrieval.Question
	}
	return services.DefaultQuestion
}
