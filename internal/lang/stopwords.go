package lang

import (
	"strings"

	"github.com/bbalet/stopwords"
)

// Filter reports whether a token is a stopword in a given language.
// Implementations must be safe for concurrent use and must never fail; a
// filter that cannot decide should keep the token.
type Filter interface {
	IsStopword(token, language string) bool
}

// NewFilter selects a stopword filter implementation by name. The choice is
// made once at process start; "lexicon" uses the external stopword corpus,
// anything else the built-in fallback lists.
func NewFilter(source string) Filter {
	if source == "lexicon" {
		return LexiconFilter{}
	}
	return BuiltinFilter{}
}

// LexiconFilter is backed by the bbalet stopword corpus, which carries a far
// richer word list per language than the built-in fallback.
type LexiconFilter struct{}

// IsStopword reports whether the lexicon removes the token entirely.
func (LexiconFilter) IsStopword(token, language string) bool {
	switch language {
	case French, Arabic, English:
	default:
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(token, language, false)) == ""
}

// BuiltinFilter uses small constant word lists compiled into the binary,
// covering the most common function words of each supported language.
type BuiltinFilter struct{}

// IsStopword checks the built-in list for the language. French and English
// tokens are compared case-insensitively; Arabic tokens as-is.
func (BuiltinFilter) IsStopword(token, language string) bool {
	switch language {
	case French:
		_, ok := builtinFrench[strings.ToLower(token)]
		return ok
	case Arabic:
		_, ok := builtinArabic[token]
		return ok
	case English:
		_, ok := builtinEnglish[strings.ToLower(token)]
		return ok
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var builtinFrench = toSet([]string{
	"le", "la", "les", "un", "une", "des", "et", "ou", "de", "du", "à", "au", "aux",
	"ce", "cette", "ces", "mon", "ma", "mes", "ton", "ta", "tes", "son", "sa", "ses",
	"que", "qui", "quoi", "dont", "où", "quand", "comment", "pourquoi",
	"je", "tu", "il", "elle", "nous", "vous", "ils", "elles", "on",
	"pour", "par", "en", "dans", "sur", "sous", "avec", "sans", "chez", "entre",
	"est", "sont", "être", "avoir", "ne", "pas", "plus", "mais", "si", "donc", "car",
})

var builtinArabic = toSet([]string{
	"من", "إلى", "عن", "على", "في", "هذا", "هذه", "هؤلاء", "ذلك", "تلك", "أولئك",
	"الذي", "التي", "الذين", "اللواتي", "أنا", "أنت", "هو", "هي", "نحن", "أنتم", "هم", "هن",
	"كان", "كانت", "كانوا", "يكون", "تكون", "يكونوا", "كن", "أن", "لأن", "لكن", "إذا", "لو",
	"ما", "لا", "لم", "لن", "قد", "كل", "بعض", "غير", "بين", "عند", "منذ", "حتى", "ثم", "أو",
})

var builtinEnglish = toSet([]string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"has", "have", "had", "in", "is", "it", "its", "of", "on", "or", "the",
	"to", "was", "were", "with", "this", "that", "these", "those",
	"i", "you", "he", "she", "we", "they", "not", "no", "do", "does", "did",
	"will", "would", "can", "could", "should", "about", "into", "over", "under",
})
