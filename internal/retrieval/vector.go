package retrieval

import (
	"context"
	"fmt"

	"rne-assistant/internal/contextutil"
	"rne-assistant/internal/corpus"
	"rne-assistant/internal/vectorstore"
)

// DefaultVectorTopK is the default candidate count requested from the
// vector store per sub-question.
const DefaultVectorTopK = 20

// Embedder encodes text into the corpus embedding space. Defined here from
// the consumer's perspective; implemented by llm.EmbeddingsClient.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorRanker wraps the approximate-nearest-neighbor index: it embeds a
// sub-question and searches the vector store, resolving hits back to corpus
// documents. The payload carries the stable document ID because the store's
// point IDs are UUID-hashed (see corpus.Document.PointID).
type VectorRanker struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
	topK       int
	corpus     *corpus.Store
}

// NewVectorRanker creates a VectorRanker. A non-positive topK falls back to
// DefaultVectorTopK.
func NewVectorRanker(embedder Embedder, store vectorstore.VectorStore, collection string, topK int, docs *corpus.Store) *VectorRanker {
	if topK <= 0 {
		topK = DefaultVectorTopK
	}
	return &VectorRanker{
		embedder:   embedder,
		store:      store,
		collection: collection,
		topK:       topK,
		corpus:     docs,
	}
}

// Search embeds the sub-question and returns the top-K most similar corpus
// documents in the given language, scores descending. Hits that cannot be
// resolved to a corpus document are skipped, not fatal.
func (r *VectorRanker) Search(ctx context.Context, question, language string) ([]Scored, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for question")
	}

	hits, err := r.store.Search(ctx, r.collection, embeddings[0], r.topK, map[string]any{"language": language})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]Scored, 0, len(hits))
	for _, hit := range hits {
		docID, _ := hit.Meta["doc_id"].(string)
		doc, ok := r.corpus.Get(docID)
		if !ok {
			logger.WarnContext(ctx, "vector hit references unknown document", "point_id", hit.PointID, "doc_id", docID)
			continue
		}
		results = append(results, Scored{Document: doc, Score: float64(hit.Score)})
	}
	return results, nil
}
