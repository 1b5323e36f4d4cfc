// Package grid abstracts the tabular source the push pipeline reads from.
//
// A grid is a header row plus a rectangle of data rows, addressed by
// 1-based row number with row 1 being the header. Readers always return
// full-width rows so fields to the right of the identifier column are
// available regardless of what subset of columns a caller selected.
package grid

// Reader supplies the header row and arbitrary blocks of data rows.
type Reader interface {
	// Headers returns the ordered column names from row 1. Names may be
	// blank; position defines column identity.
	Headers() ([]string, error)

	// Rows returns up to count full-width rows starting at the 1-based
	// row start (start >= 2 for data rows). Fewer rows are returned when
	// the grid ends early; asking past the end returns an empty slice.
	Rows(start, count int) ([][]any, error)
}
