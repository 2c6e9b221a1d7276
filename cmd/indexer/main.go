package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"rne-assistant/internal/config"
	"rne-assistant/internal/corpus"
	"rne-assistant/internal/llm"
	"rne-assistant/internal/vectorstore"
)

// embedBatchSize bounds the number of documents per embeddings request.
const embedBatchSize = 32

// The indexer embeds every corpus document and upserts the vectors into
// Qdrant. It is run offline, before the API serves; re-running it on the
// same corpus is idempotent because point IDs are derived from document IDs.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	documents, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	docs := corpus.NewStore(documents)
	slog.Info("Corpus loaded", "path", cfg.CorpusPath, "documents", docs.Len())

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName,
		cfg.EmbeddingVectorSize, cfg.LLMTimeout, cfg.LLMMaxRetries, cfg.LLMRetryBackoff)

	all := docs.All()
	indexed := 0
	for start := 0; start < len(all); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(all) {
			end = len(all)
		}
		batch := all[start:end]

		texts := make([]string, 0, len(batch))
		for _, doc := range batch {
			texts = append(texts, doc.IndexText())
		}

		embeddings, err := embedder.EmbedTexts(ctx, texts)
		if err != nil {
			log.Fatalf("Failed to embed documents %d-%d: %v", start, end-1, err)
		}

		points := make([]vectorstore.Point, 0, len(batch))
		for i, doc := range batch {
			points = append(points, vectorstore.Point{
				ID:  doc.PointID(),
				Vec: embeddings[i],
				Meta: map[string]any{
					"doc_id":   doc.ID,
					"language": doc.Language,
					"code":     doc.Code,
				},
			})
		}

		if err := vectorStore.Upsert(ctx, cfg.QdrantCollection, points); err != nil {
			log.Fatalf("Failed to upsert points %d-%d: %v", start, end-1, err)
		}

		indexed += len(points)
		slog.Info("Batch indexed", "indexed", indexed, "total", len(all))
	}

	slog.Info("Indexing complete", "collection", cfg.QdrantCollection, "points", indexed)
}
