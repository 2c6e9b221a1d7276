package retrieval

import (
	"context"
	"fmt"

	"rne-assistant/internal/contextutil"
	"rne-assistant/internal/lang"
)

// Retriever runs the full hybrid pipeline for a turn: per sub-question it
// preprocesses the text, ranks lexically and by vector similarity, fuses
// both rankings, then merges candidates across sub-questions.
type Retriever struct {
	processor *lang.Processor
	lexical   *LexicalIndex
	vector    *VectorRanker
	fuser     *Fuser
}

// NewRetriever wires the pipeline stages together.
func NewRetriever(processor *lang.Processor, lexical *LexicalIndex, vector *VectorRanker, fuser *Fuser) *Retriever {
	return &Retriever{
		processor: processor,
		lexical:   lexical,
		vector:    vector,
		fuser:     fuser,
	}
}

// Retrieve ranks corpus documents for the given sub-questions, all in the
// same language. Each result's SourceQuestion is the index into subQuestions
// that produced its best fused score. A vector-side failure on one
// sub-question aborts the whole retrieval; callers decide how to degrade.
func (r *Retriever) Retrieve(ctx context.Context, subQuestions []string, language string) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	perQuestion := make([][]Result, 0, len(subQuestions))
	for i, question := range subQuestions {
		processed := r.processor.Process(question, language)

		lexHits := r.lexical.Search(processed.FilteredTokens, language)

		vecHits, err := r.vector.Search(ctx, question, language)
		if err != nil {
			return nil, fmt.Errorf("retrieval for sub-question %d failed: %w", i, err)
		}

		fused := r.fuser.Fuse(lexHits, vecHits, i)
		logger.DebugContext(ctx, "sub-question retrieved",
			"index", i,
			"lexical_hits", len(lexHits),
			"vector_hits", len(vecHits),
			"fused", len(fused),
		)
		perQuestion = append(perQuestion, fused)
	}

	return r.fuser.Merge(perQuestion), nil
}
