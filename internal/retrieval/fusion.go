package retrieval

import "sort"

// Fusion defaults. The weights and cap are design defaults, overridable via
// configuration.
const (
	DefaultLexicalWeight = 0.5
	DefaultVectorWeight  = 0.5
	DefaultMaxResults    = 5
)

// Fuser merges lexical and vector rankings into a single ordered candidate
// list per sub-question, and merges those lists across sub-questions.
// It is stateless and safe for concurrent use.
type Fuser struct {
	lexicalWeight float64
	vectorWeight  float64
	maxResults    int
}

// NewFuser creates a Fuser. Non-positive weights fall back to the defaults;
// a non-positive cap falls back to DefaultMaxResults.
func NewFuser(lexicalWeight, vectorWeight float64, maxResults int) *Fuser {
	if lexicalWeight <= 0 && vectorWeight <= 0 {
		lexicalWeight = DefaultLexicalWeight
		vectorWeight = DefaultVectorWeight
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Fuser{
		lexicalWeight: lexicalWeight,
		vectorWeight:  vectorWeight,
		maxResults:    maxResults,
	}
}

// Fuse combines both rankings for one sub-question. The candidate set is the
// union of both lists; a candidate missing from one list scores 0 on that
// side. Each side is min-max normalized to [0,1] independently across the
// candidate set (zero variance collapses to 0.5 for every candidate), then
// combined as lexicalWeight*normLex + vectorWeight*normVec. The result is
// sorted by fused score descending, ties broken by raw lexical score, then
// by corpus insertion order. The ordering is monotonic-consistent: a
// candidate dominating another on both normalized sides never ranks below it.
func (f *Fuser) Fuse(lexical, vector []Scored, questionIndex int) []Result {
	if len(lexical) == 0 && len(vector) == 0 {
		return nil
	}

	byID := make(map[string]int)
	results := make([]Result, 0, len(lexical)+len(vector))

	for _, s := range lexical {
		byID[s.Document.ID] = len(results)
		results = append(results, Result{
			Document:       s.Document,
			LexicalScore:   s.Score,
			SourceQuestion: questionIndex,
		})
	}
	for _, s := range vector {
		if i, ok := byID[s.Document.ID]; ok {
			results[i].VectorScore = s.Score
			continue
		}
		byID[s.Document.ID] = len(results)
		results = append(results, Result{
			Document:       s.Document,
			VectorScore:    s.Score,
			SourceQuestion: questionIndex,
		})
	}

	lexScores := make([]float64, len(results))
	vecScores := make([]float64, len(results))
	for i := range results {
		lexScores[i] = results[i].LexicalScore
		vecScores[i] = results[i].VectorScore
	}
	normLex := minMaxNormalize(lexScores)
	normVec := minMaxNormalize(vecScores)

	for i := range results {
		results[i].FusedScore = f.lexicalWeight*normLex[i] + f.vectorWeight*normVec[i]
	}

	sortResults(results)
	return results
}

// Merge combines the per-sub-question candidate lists by document identity,
// keeping each document's maximum fused score and the sub-question that
// produced it, and caps the merged list.
func (f *Fuser) Merge(perQuestion [][]Result) []Result {
	byID := make(map[string]int)
	merged := make([]Result, 0)

	for _, results := range perQuestion {
		for _, r := range results {
			i, ok := byID[r.Document.ID]
			if !ok {
				byID[r.Document.ID] = len(merged)
				merged = append(merged, r)
				continue
			}
			if r.FusedScore > merged[i].FusedScore {
				merged[i] = r
			}
		}
	}

	sortResults(merged)
	if len(merged) > f.maxResults {
		merged = merged[:f.maxResults]
	}
	return merged
}

// sortResults orders candidates by fused score descending, then raw lexical
// score descending, then corpus insertion order. The full tie-break chain
// makes the ordering deterministic regardless of map iteration.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		if results[i].LexicalScore != results[j].LexicalScore {
			return results[i].LexicalScore > results[j].LexicalScore
		}
		return results[i].Document.Ordinal < results[j].Document.Ordinal
	})
}

// minMaxNormalize scales values to [0,1]. A zero-variance input (including a
// single value) maps every entry to 0.5 so degenerate lists neither raise
// nor dominate the other ranking side.
func minMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	for i, v := range values {
		out[i] = (v - minVal) / (maxVal - minVal)
	}
	return out
}
