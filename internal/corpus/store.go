package corpus

// Store is the read-only document collection shared by all requests.
// It is built once at startup and never mutated, so no locking is needed.
type Store struct {
	docs   []Document
	byID   map[string]int
	byLang map[string][]int
}

// NewStore builds a Store over the loaded documents. Document ordinals are
// assumed to match their slice positions (Load guarantees this).
func NewStore(docs []Document) *Store {
	s := &Store{
		docs:   docs,
		byID:   make(map[string]int, len(docs)),
		byLang: make(map[string][]int),
	}
	for i := range docs {
		s.byID[docs[i].ID] = i
		s.byLang[docs[i].Language] = append(s.byLang[docs[i].Language], i)
	}
	return s
}

// Len returns the total number of documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// All returns every document in insertion order.
func (s *Store) All() []*Document {
	out := make([]*Document, len(s.docs))
	for i := range s.docs {
		out[i] = &s.docs[i]
	}
	return out
}

// Get returns the document with the given ID.
func (s *Store) Get(id string) (*Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.docs[i], true
}

// ByLanguage returns the documents in the given language, in insertion order.
func (s *Store) ByLanguage(lang string) []*Document {
	idx := s.byLang[lang]
	out := make([]*Document, len(idx))
	for i, j := range idx {
		out[i] = &s.docs[j]
	}
	return out
}

// Languages returns the set of languages present in the corpus.
func (s *Store) Languages() []string {
	langs := make([]string, 0, len(s.byLang))
	for lang := range s.byLang {
		langs = append(langs, lang)
	}
	return langs
}
