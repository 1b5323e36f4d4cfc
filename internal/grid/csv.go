package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSV is a Reader backed by an in-memory parse of a CSV file. Cells are
// strings exactly as they appear in the file; type coercion happens later
// in the pipeline.
type CSV struct {
	records [][]string
}

// OpenCSV reads an entire CSV file into a grid.
func OpenCSV(path string) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV data from r into a grid. Rows may be ragged; short
// rows are not padded here (the row mapper treats missing cells as nil).
func ReadCSV(r io.Reader) (*CSV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty grid: no header row")
	}

	// Strip a UTF-8 BOM from the first header cell; spreadsheet exports
	// routinely carry one.
	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}

	return &CSV{records: records}, nil
}

// Headers returns row 1 of the file.
func (c *CSV) Headers() ([]string, error) {
	return c.records[0], nil
}

// Rows returns up to count rows starting at the 1-based row number start.
func (c *CSV) Rows(start, count int) ([][]any, error) {
	if start < 2 {
		return nil, fmt.Errorf("data rows start at row 2, got %d", start)
	}
	if count < 0 {
		return nil, fmt.Errorf("row count must be non-negative, got %d", count)
	}

	rows := make([][]any, 0, count)
	for i := start; i < start+count && i <= len(c.records); i++ {
		rec := c.records[i-1]
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowCount returns the number of data rows (excluding the header).
func (c *CSV) RowCount() int {
	return len(c.records) - 1
}
