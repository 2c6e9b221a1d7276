package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore backed by exhaustive cosine
// search. It exists for tests and for running without a Qdrant instance;
// the interface contract is identical.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Point
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Point),
	}
}

// Upsert inserts or replaces points by ID.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.collections[collection]
	for _, point := range points {
		replaced := false
		for i := range existing {
			if existing[i].ID == point.ID {
				existing[i] = point
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, point)
		}
	}
	s.collections[collection] = existing
	return nil
}

// Search ranks all points in the collection by cosine similarity to query,
// applying exact-match metadata filters, and returns the top k.
func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.collections[collection]))
	for _, point := range s.collections[collection] {
		if !matchesFilters(point.Meta, filters) {
			continue
		}
		results = append(results, SearchResult{
			PointID: point.ID,
			Score:   cosineSimilarity(query, point.Vec),
			Meta:    point.Meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (s *MemoryStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func matchesFilters(meta map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		if fmt.Sprintf("%v", want) == "" {
			continue
		}
		got, ok := meta[key]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
