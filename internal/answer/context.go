package answer

import (
	"fmt"
	"strings"

	"rne-assistant/internal/retrieval"
)

// ContextBlock is the formatted retrieval context handed to the generation
// provider. Empty is true iff no candidate matched; Text then holds the
// localized sentinel.
type ContextBlock struct {
	Text  string
	Empty bool
}

// Assemble formats the ranked candidates into the localized context block,
// in rank order. Each document renders as a numbered section with its code,
// entity fields, procedure, fee, deadline, detailed content fields in their
// original order and PDF link; missing fields render a localized fallback.
func Assemble(results []retrieval.Result, language string) ContextBlock {
	loc := localeFor(language)

	if len(results) == 0 {
		return ContextBlock{Text: loc.sentinel, Empty: true}
	}

	sections := make([]string, 0, len(results))
	for i, r := range results {
		doc := r.Document

		var b strings.Builder
		fmt.Fprintf(&b, loc.documentHeader, i+1, r.FusedScore)
		b.WriteString("\n")
		writeField(&b, loc.codeLabel, doc.Code, "")
		writeField(&b, loc.typeLabel, doc.EntrepriseType, loc.typeFallback)
		writeField(&b, loc.genreLabel, doc.EntrepriseGenre, loc.genreFallback)
		writeField(&b, loc.procedureLabel, doc.Procedure, loc.procedureFallback)
		writeField(&b, loc.feeLabel, doc.Fee, loc.feeFallback)
		writeField(&b, loc.deadlineLabel, doc.Deadline, loc.deadlineFallback)

		if len(doc.Extras) > 0 {
			b.WriteString(loc.contentLabel)
			b.WriteString(":\n")
			for _, extra := range doc.Extras {
				b.WriteString(extra.Key)
				b.WriteString(": ")
				b.WriteString(extra.Value)
				b.WriteString("\n")
			}
		}

		writeField(&b, loc.pdfLabel, doc.PDFLink, loc.pdfFallback)
		sections = append(sections, b.String())
	}

	return ContextBlock{Text: strings.Join(sections, "\n\n")}
}

func writeField(b *strings.Builder, label, value, fallback string) {
	if value == "" {
		value = fallback
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
