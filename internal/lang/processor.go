package lang

// Processed is the full preprocessing output for one piece of text.
type Processed struct {
	// Language is the detected (or caller-supplied) language code.
	Language string
	// Normalized is the cleaned text the tokens were derived from.
	Normalized string
	// Tokens are the whitespace tokens of the normalized text.
	Tokens []string
	// FilteredTokens are Tokens with stopwords removed.
	FilteredTokens []string
}

// Processor runs the full normalization pipeline: detect, normalize,
// tokenize, filter stopwords. It holds no per-request state and is safe for
// concurrent use.
type Processor struct {
	detector *Detector
	filter   Filter
}

// NewProcessor creates a Processor with the given detector and stopword
// filter. The filter is chosen once at startup (see NewFilter).
func NewProcessor(detector *Detector, filter Filter) *Processor {
	return &Processor{detector: detector, filter: filter}
}

// Detect exposes language detection for callers that need the language
// before (or without) full preprocessing.
func (p *Processor) Detect(text string) string {
	return p.detector.Detect(text)
}

// Process normalizes, tokenizes and stopword-filters text. When language is
// empty it is detected first. Process is a pure function of its input.
func (p *Processor) Process(text, language string) Processed {
	if language == "" {
		language = p.detector.Detect(text)
	}

	normalized := Normalize(text, language)
	tokens := Tokenize(normalized)

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if p.filter.IsStopword(token, language) {
			continue
		}
		filtered = append(filtered, token)
	}

	return Processed{
		Language:       language,
		Normalized:     normalized,
		Tokens:         tokens,
		FilteredTokens: filtered,
	}
}
