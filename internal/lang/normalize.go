package lang

import (
	"regexp"
	"strings"
)

var (
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
	// arabicNoise matches everything outside the core Arabic block and
	// whitespace; those characters are replaced with spaces.
	arabicNoise = regexp.MustCompile(`[^\x{0600}-\x{06FF}\s]`)
	// latinNoise matches characters outside word characters, whitespace and
	// the Latin-1/Latin-Extended-A accented range.
	latinNoise = regexp.MustCompile(`[^\w\s\x{00C0}-\x{017F}]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Normalize strips URLs and language-inappropriate characters and collapses
// whitespace. Latin text is additionally lowercased so that token matching
// is case-insensitive; Arabic has no case to fold.
func Normalize(text, language string) string {
	text = urlPattern.ReplaceAllString(text, "")
	if language == Arabic {
		text = arabicNoise.ReplaceAllString(text, " ")
	} else {
		text = latinNoise.ReplaceAllString(text, " ")
		text = strings.ToLower(text)
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// Tokenize splits normalized text on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
