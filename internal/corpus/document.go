package corpus

import (
	"strings"

	"github.com/google/uuid"
)

// Document is a single regulation record from the business registry.
// Documents are built once at corpus load and never mutated afterwards,
// so they are safe to share across concurrent requests.
type Document struct {
	// ID is the stable document key (e.g., "M 004.37_fr").
	ID string
	// Code is the regulation identifier (e.g., "M 004.37").
	Code string
	// Language is the document language ("fr" or "ar").
	Language string
	// EntrepriseType is the kind of entity the regulation applies to.
	EntrepriseType string
	// EntrepriseGenre further qualifies the entity kind.
	EntrepriseGenre string
	// Procedure is the registry procedure the regulation describes.
	Procedure string
	// Fee is the fee demanded for the procedure, as free text.
	Fee string
	// Deadline is the processing deadline, as free text.
	Deadline string
	// RawContent is the flattened free-text body used for indexing.
	RawContent string
	// PDFLink is the official PDF URL, empty when unavailable.
	PDFLink string
	// Extras holds the detailed content fields in their original order.
	Extras []Extra
	// Embedding is the dense vector for this document. Populated by the
	// offline index build; empty during serving (vectors live in the store).
	Embedding []float32
	// Ordinal is the insertion position in the corpus, used as the
	// deterministic tie-breaker in ranking.
	Ordinal int
}

// Extra is a single key/value pair from a document's detailed content.
// The slice form preserves the order the fields appear in the source file.
type Extra struct {
	Key   string
	Value string
}

// IndexText returns the text representation used for both lexical and
// vector indexing: code, entity fields, procedure and body joined together.
func (d *Document) IndexText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{d.Code, d.EntrepriseType, d.EntrepriseGenre, d.Procedure, d.RawContent} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// PointID returns the deterministic vector-store point ID for the document.
// Qdrant point IDs must be UUIDs, so the stable document ID is hashed into
// one; re-indexing the same corpus always produces the same points.
func (d *Document) PointID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(d.ID)).String()
}
