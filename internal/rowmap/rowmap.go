// Package rowmap turns one grid row into a (document, identifier) pair.
//
// Column identity is positional: a header row names the columns once per
// batch, and every data row is aligned with it by index. One header is the
// identifier column; its cell supplies the target document ID and only the
// columns to its right contribute document fields.
package rowmap

import (
	"strings"

	"github.com/Decron/SheetFire/internal/coerce"
)

// Options controls how documents are assembled from rows.
type Options struct {
	// IDField is the configured identifier-field name ("docId" by default).
	// It is always removed from the field set after mapping, and re-added
	// only when IncludeIDField is set.
	IDField string

	// IncludeIDField writes the identifier value back under IDField when
	// the row has a non-empty identifier.
	IncludeIDField bool
}

// BuildDocument maps one data row into a document and its identifier.
//
// idCol is the 1-based position of the identifier column and must be
// within headers. Fields are taken from the identifier column through the
// end of the header row; blank header names emit no field, and the
// identifier field name itself is deleted last (it may have been re-added
// by a duplicate header further right). Cells past the end of the row map
// to nil; cells past the end of the headers are ignored.
//
// The returned identifier is the trimmed string form of the identifier
// cell; empty means the row carries no identifier. The function is a pure
// transformation with no side effects.
func BuildDocument(headers []string, row []any, idCol int, opts Options) (map[string]any, string) {
	doc := make(map[string]any)

	var id string
	if idCol >= 1 && idCol <= len(row) {
		id = strings.TrimSpace(coerce.String(row[idCol-1]))
	}

	for i := idCol; i <= len(headers); i++ {
		header := headers[i-1]
		if strings.TrimSpace(header) == "" {
			continue
		}
		var cell any
		if i <= len(row) {
			cell = row[i-1]
		}
		doc[header] = coerce.Value(cell)
	}

	// Deletion happens last and is idempotent: the loop above writes the
	// identifier column's own header, and may write it again if the same
	// name repeats further right.
	delete(doc, opts.IDField)

	if opts.IncludeIDField && id != "" {
		doc[opts.IDField] = id
	}

	return doc, id
}

// FindIDColumn returns the 1-based position of the first header equal to
// idField, or 0 when no header matches. The comparison is exact and
// case-sensitive; duplicate matches are a caller error and the first wins.
func FindIDColumn(headers []string, idField string) int {
	for i, h := range headers {
		if h == idField {
			return i + 1
		}
	}
	return 0
}
