package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"

	"rne-assistant/internal/config"
	"rne-assistant/internal/corpus"
	"rne-assistant/internal/dialogue"
	"rne-assistant/internal/http"
	"rne-assistant/internal/lang"
	"rne-assistant/internal/llm"
	"rne-assistant/internal/retrieval"
	"rne-assistant/internal/service"
	"rne-assistant/internal/storage"
	"rne-assistant/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()

	// Load the corpus; serving without it is pointless, so fail fast.
	documents, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	docs := corpus.NewStore(documents)
	slog.Info("Corpus loaded", "path", cfg.CorpusPath, "documents", docs.Len())

	// Build the text pipeline and the lexical index over the full corpus.
	detector := lang.NewDetector()
	processor := lang.NewProcessor(detector, lang.NewFilter(cfg.StopwordSource))
	lexicalIndex := retrieval.NewLexicalIndex(docs, processor)
	slog.Info("Lexical index built", "languages", docs.Languages())

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	exists, err := vectorStore.CollectionExists(ctx, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to check Qdrant collection: %v", err)
	}
	if !exists {
		log.Fatalf("Qdrant collection %q does not exist; run the indexer first", cfg.QdrantCollection)
	}
	count, err := vectorStore.Count(ctx, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to count Qdrant points: %v", err)
	}
	if count == 0 {
		log.Fatalf("Qdrant collection %q is empty; run the indexer first", cfg.QdrantCollection)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "points", count)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName,
		cfg.EmbeddingVectorSize, cfg.LLMTimeout, cfg.LLMMaxRetries, cfg.LLMRetryBackoff)

	vectorRanker := retrieval.NewVectorRanker(embedder, vectorStore, cfg.QdrantCollection, cfg.VectorTopK, docs)
	fuser := retrieval.NewFuser(cfg.LexicalWeight, cfg.VectorWeight, cfg.MaxResults)
	retriever := retrieval.NewRetriever(processor, lexicalIndex, vectorRanker, fuser)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName,
		cfg.LLMTimeout, cfg.LLMMaxRetries, cfg.LLMRetryBackoff)

	// Session store: in-process by default, SQLite when turns must survive
	// a restart.
	var sessions dialogue.SessionStore
	if cfg.SessionStore == "sqlite" {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		sessions = storage.NewSessionRepo(db)
		slog.Info("Session store initialized", "backend", "sqlite", "path", cfg.DBPath)
	} else {
		sessions = dialogue.NewMemoryStore()
		slog.Info("Session store initialized", "backend", "memory")
	}

	controller := dialogue.NewController(cfg.ClarificationMargin)
	chatService := service.NewChatService(processor, retriever, llmClient, controller, sessions)

	deps := &http.Deps{
		ChatService:    chatService,
		VectorStore:    vectorStore,
		Corpus:         docs,
		CollectionName: cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// parseLogLevel maps the configured level name to a slog level, defaulting
// to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
