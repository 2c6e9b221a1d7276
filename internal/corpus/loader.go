package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// record mirrors one entry of the registry export file. Content blocks are
// kept raw so their field order can be recovered (encoding/json maps do not
// preserve it).
type record struct {
	Code            string          `json:"code"`
	EntrepriseType  string          `json:"type_entreprise"`
	EntrepriseGenre string          `json:"genre_entreprise"`
	Procedure       string          `json:"procedure"`
	Fee             string          `json:"redevance_demandee"`
	Deadline        string          `json:"delais"`
	FrenchContent   json.RawMessage `json:"french_content"`
	ArabicContent   json.RawMessage `json:"arabic_content"`
	PDFFrenchLink   string          `json:"pdf_french_link"`
	PDFArabicLink   string          `json:"pdf_arabic_link"`
}

// Load reads the regulation export at path and returns one Document per
// language variant, in file order. An unreadable or empty file is an error;
// the caller is expected to fail fast at startup.
func Load(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var records []record
	// A single-object export is accepted and treated as a one-record list.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single record
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
		}
		records = []record{single}
	} else {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
		}
	}

	docs := make([]Document, 0, 2*len(records))
	for _, rec := range records {
		if rec.Code == "" {
			continue
		}
		for _, variant := range []struct {
			lang    string
			content json.RawMessage
			pdf     string
		}{
			{"fr", rec.FrenchContent, rec.PDFFrenchLink},
			{"ar", rec.ArabicContent, rec.PDFArabicLink},
		} {
			extras, err := decodeOrderedObject(variant.content)
			if err != nil {
				return nil, fmt.Errorf("document %s (%s): %w", rec.Code, variant.lang, err)
			}
			if len(extras) == 0 {
				continue
			}
			docs = append(docs, Document{
				ID:              rec.Code + "_" + variant.lang,
				Code:            rec.Code,
				Language:        variant.lang,
				EntrepriseType:  rec.EntrepriseType,
				EntrepriseGenre: rec.EntrepriseGenre,
				Procedure:       rec.Procedure,
				Fee:             rec.Fee,
				Deadline:        rec.Deadline,
				RawContent:      flattenExtras(extras),
				PDFLink:         variant.pdf,
				Extras:          extras,
				Ordinal:         len(docs),
			})
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no indexable documents", path)
	}
	return docs, nil
}

// decodeOrderedObject parses a JSON object into key/value pairs preserving
// the order keys appear in the source. String values pass through; arrays of
// strings are joined; anything else is rendered with its JSON encoding.
func decodeOrderedObject(raw json.RawMessage) ([]Extra, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid content block: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("content block is not a JSON object")
	}

	var extras []Extra
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid content key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("content key is not a string")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid content value for %q: %w", key, err)
		}
		extras = append(extras, Extra{Key: key, Value: renderValue(value)})
	}
	return extras, nil
}

func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return string(bytes.TrimSpace(raw))
}

// flattenExtras renders the ordered content fields into the free-text body
// used for indexing, one "key: value" line per field.
func flattenExtras(extras []Extra) string {
	var b strings.Builder
	for _, e := range extras {
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}
