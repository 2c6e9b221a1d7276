package lang

import (
	"regexp"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Corpus language codes. French is the default whenever detection cannot
// produce a supported result. English exists only as a detection candidate
// and a stopword list; the corpus itself is French and Arabic.
const (
	French  = "fr"
	Arabic  = "ar"
	English = "en"
)

// Default is the fallback language for undetectable input.
const Default = French

// arabicScript matches any character in the Arabic Unicode blocks. Used as a
// deterministic backstop when statistical detection is inconclusive.
var arabicScript = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}]`)

// Detector identifies the language of user input. It is immutable after
// construction and safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector restricted to French, Arabic and English.
// Restricting the candidate set keeps short legal queries from being
// misclassified into unrelated languages; English stays in the set so that
// English input is recognized as such rather than mistaken for low-confidence
// French or Arabic.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.French, lingua.Arabic, lingua.English).
			Build(),
	}
}

// Detect returns "fr" or "ar" for the given text. Detection never fails:
// English and inconclusive input fall back to an Arabic-script check, then
// to French, so every query resolves to a corpus language.
func (d *Detector) Detect(text string) string {
	if len(strings.TrimSpace(text)) < 2 {
		return Default
	}

	if language, ok := d.detector.DetectLanguageOf(text); ok {
		switch language {
		case lingua.Arabic:
			return Arabic
		case lingua.French:
			return French
		}
	}

	if arabicScript.MatchString(text) {
		return Arabic
	}
	return Default
}

// Supported normalizes a language code to one the corpus carries. Anything
// other than French or Arabic maps to the default.
func Supported(language string) string {
	if language == French || language == Arabic {
		return language
	}
	return Default
}

// Direction returns the text direction for a language code: "rtl" for
// Arabic, "ltr" otherwise.
func Direction(language string) string {
	if language == Arabic {
		return "rtl"
	}
	return "ltr"
}
