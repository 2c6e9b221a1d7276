package lang

import (
	"regexp"
	"strings"
)

// questionDelimiters matches one-or-more question marks (Latin or Arabic) or
// newlines, the boundaries a user turn is split on.
var questionDelimiters = regexp.MustCompile(`[?؟\n]+`)

// SegmentQuestions splits a user turn into individual questions. Empty
// fragments are dropped and a terminal "?" is restored on each fragment
// (splitting consumes the delimiter). The result is never empty and
// preserves the order the questions appear in the input, which later stages
// rely on to attribute retrieved documents to their source question.
func SegmentQuestions(text string) []string {
	segments := questionDelimiters.Split(text, -1)

	questions := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		questions = append(questions, segment+"?")
	}

	if len(questions) == 0 {
		return []string{text}
	}
	return questions
}
