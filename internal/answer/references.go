package answer

import (
	"fmt"
	"strings"

	"rne-assistant/internal/retrieval"
)

// Reference is one cited document in a direct answer.
type Reference struct {
	Code    string `json:"code"`
	PDFLink string `json:"pdf_link"`
}

// References extracts the citable documents from the ranked candidates, in
// rank order. Documents without a PDF link are omitted.
func References(results []retrieval.Result) []Reference {
	refs := make([]Reference, 0, len(results))
	for _, r := range results {
		if r.Document.PDFLink == "" {
			continue
		}
		refs = append(refs, Reference{Code: r.Document.Code, PDFLink: r.Document.PDFLink})
	}
	return refs
}

// AppendReferences appends a localized references section to the answer,
// listing each cited code with a markdown link to its PDF. When refs is
// empty the answer is returned unchanged, with no heading.
func AppendReferences(answerText string, refs []Reference, language string) string {
	if len(refs) == 0 {
		return answerText
	}

	loc := localeFor(language)

	var b strings.Builder
	b.WriteString(answerText)
	b.WriteString("\n\n")
	b.WriteString(loc.referencesHeading)
	b.WriteString("\n")
	for i, ref := range refs {
		fmt.Fprintf(&b, "%d. ", i+1)
		fmt.Fprintf(&b, loc.referenceCode, ref.Code)
		fmt.Fprintf(&b, " - [%s](%s)\n", loc.referenceLink, ref.PDFLink)
	}
	return b.String()
}
