package retrieval

import (
	"math"
	"sort"

	"rne-assistant/internal/corpus"
	"rne-assistant/internal/lang"
)

// BM25 tuning constants, standard Okapi values.
const (
	// bm25K1 controls term frequency saturation.
	bm25K1 = 1.5
	// bm25B controls document length normalization.
	bm25B = 0.75
)

// lexicalDoc is the tokenized representation of one corpus document.
type lexicalDoc struct {
	doc    *corpus.Document
	tf     map[string]int
	length int
}

// languageIndex holds the BM25 statistics for one language's documents.
type languageIndex struct {
	docs   []lexicalDoc
	idf    map[string]float64
	avgLen float64
}

// LexicalIndex ranks corpus documents by Okapi BM25 over their tokenized,
// stopword-filtered text. Documents are partitioned by language because
// French and Arabic tokens never overlap and mixing them would distort the
// IDF statistics. The index is built once at startup and is immutable, so
// it is safe for concurrent searches without locking.
type LexicalIndex struct {
	byLanguage map[string]*languageIndex
}

// NewLexicalIndex tokenizes every corpus document with the given processor
// and precomputes term frequencies, document frequencies and IDF per
// language. IDF uses Lucene-style add-one smoothing so rare terms never
// divide by zero.
func NewLexicalIndex(store *corpus.Store, processor *lang.Processor) *LexicalIndex {
	idx := &LexicalIndex{byLanguage: make(map[string]*languageIndex)}

	for _, language := range store.Languages() {
		docs := store.ByLanguage(language)
		li := &languageIndex{
			docs: make([]lexicalDoc, 0, len(docs)),
			idf:  make(map[string]float64),
		}
		df := make(map[string]int)
		totalLen := 0

		for _, doc := range docs {
			tokens := processor.Process(doc.IndexText(), language).FilteredTokens
			tf := make(map[string]int, len(tokens))
			for _, token := range tokens {
				tf[token]++
			}
			li.docs = append(li.docs, lexicalDoc{doc: doc, tf: tf, length: len(tokens)})
			totalLen += len(tokens)
			for term := range tf {
				df[term]++
			}
		}

		if n := len(li.docs); n > 0 {
			li.avgLen = float64(totalLen) / float64(n)
			for term, docFreq := range df {
				li.idf[term] = math.Log(float64(n+1)/float64(docFreq+1)) + 1.0
			}
		}
		idx.byLanguage[language] = li
	}
	return idx
}

// Search scores every document of the language against the query tokens and
// returns the positive-scoring ones, sorted by descending score with ties
// broken by corpus insertion order. An unknown language or empty token list
// yields no results.
func (x *LexicalIndex) Search(tokens []string, language string) []Scored {
	li := x.byLanguage[language]
	if li == nil || len(tokens) == 0 {
		return nil
	}

	results := make([]Scored, 0, len(li.docs))
	for _, doc := range li.docs {
		score := li.score(tokens, doc)
		if score > 0 {
			results = append(results, Scored{Document: doc.doc, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Ordinal < results[j].Document.Ordinal
	})
	return results
}

// score computes the Okapi BM25 score of one document for the query tokens:
//
//	score = Σ_t idf(t) × (tf(t) × (k1+1)) / (tf(t) + k1 × (1 - b + b × dl/avgdl))
func (li *languageIndex) score(tokens []string, doc lexicalDoc) float64 {
	if li.avgLen == 0 || doc.length == 0 {
		return 0
	}

	dl := float64(doc.length)
	var score float64
	for _, term := range tokens {
		tf, ok := doc.tf[term]
		if !ok {
			continue
		}
		idf, ok := li.idf[term]
		if !ok {
			continue
		}
		tfFloat := float64(tf)
		numerator := tfFloat * (bm25K1 + 1)
		denominator := tfFloat + bm25K1*(1.0-bm25B+bm25B*dl/li.avgLen)
		score += idf * numerator / denominator
	}
	return score
}
