package retrieval

import "rne-assistant/internal/corpus"

// Result is one fused retrieval candidate. Results are created per request
// and never persisted; the document is a reference into the shared corpus.
type Result struct {
	// Document is the matched regulation record (not owned).
	Document *corpus.Document
	// LexicalScore is the raw BM25 score (0 when only the vector side matched).
	LexicalScore float64
	// VectorScore is the raw similarity score (0 when only the lexical side matched).
	VectorScore float64
	// FusedScore is the normalized weighted combination in [0,1].
	FusedScore float64
	// SourceQuestion is the index of the sub-question that produced this
	// candidate (after cross-question merging, the one with the best score).
	SourceQuestion int
}

// Scored pairs a document with a single ranker's raw score.
type Scored struct {
	Document *corpus.Document
	Score    float64
}
