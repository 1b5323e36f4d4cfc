// Package push runs batches of grid rows through the write endpoint.
//
// One Processor invocation covers one contiguous block of data rows. Rows
// are processed strictly in order, one blocking write at a time, and each
// row's outcome is isolated: a failed write is recorded in the run summary
// and the batch moves on.
package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Decron/SheetFire/internal/client"
	"github.com/Decron/SheetFire/internal/config"
	"github.com/Decron/SheetFire/internal/grid"
	"github.com/Decron/SheetFire/internal/rowmap"
	"github.com/Decron/SheetFire/internal/wire"
)

// ErrIdentifierColumnMissing aborts a run before any write is attempted.
// The identifier column is located once per run; a grid without it is a
// configuration problem, not a per-row failure.
var ErrIdentifierColumnMissing = errors.New("identifier column not found in header row")

// Writer is the endpoint call the processor makes per row. *client.Client
// satisfies it.
type Writer interface {
	Write(ctx context.Context, req wire.WriteRequest, cred client.Credential) (*client.Result, error)
}

// RowError is one failed row, tagged with its absolute 1-based row number.
type RowError struct {
	RowNo   int
	Message string
}

// Summary is the outcome of one batch invocation. It is created fresh per
// run, returned to the caller, and never persisted.
type Summary struct {
	AttemptedRows int
	Sent          int
	SkippedNoID   int
	SkippedErrors int
	Errors        []RowError
}

// Report renders the summary for an operator, listing at most maxErrors
// error lines and collapsing the rest into a count.
func (s *Summary) Report(maxErrors int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows attempted: %d, sent: %d, skipped (no identifier): %d, skipped (error): %d",
		s.AttemptedRows, s.Sent, s.SkippedNoID, s.SkippedErrors)
	if len(s.Errors) == 0 {
		return b.String()
	}
	shown := s.Errors
	if maxErrors > 0 && len(shown) > maxErrors {
		shown = shown[:maxErrors]
	}
	for _, e := range shown {
		fmt.Fprintf(&b, "\n  row %d: %s", e.RowNo, e.Message)
	}
	if rest := len(s.Errors) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n  +%d more", rest)
	}
	return b.String()
}

// Processor pushes rows from one grid to one endpoint under one effective
// configuration.
type Processor struct {
	grid   grid.Reader
	writer Writer
	cfg    config.Effective
	logger *slog.Logger
}

// New builds a processor. logger may be nil, in which case slog's default
// logger is used.
func New(g grid.Reader, w Writer, cfg config.Effective, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{grid: g, writer: w, cfg: cfg, logger: logger}
}

// Run processes rowCount rows starting at the 1-based row startRow
// (startRow >= 2; row 1 is the header). Rows with a blank identifier are
// skipped without a write. dryRun is forwarded to the endpoint so nothing
// persists server-side either.
//
// Run returns an error only for problems that abort the whole batch
// before any write: a missing identifier column, an unreadable grid, or
// an empty credential. Per-row write failures land in the Summary.
func (p *Processor) Run(ctx context.Context, startRow, rowCount int, cred client.Credential, dryRun bool) (*Summary, error) {
	if cred.Empty() {
		return nil, errors.New("no secret provided; aborting before any writes")
	}

	headers, err := p.grid.Headers()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	idCol := rowmap.FindIDColumn(headers, p.cfg.IDField)
	if idCol == 0 {
		return nil, fmt.Errorf("%w: %q", ErrIdentifierColumnMissing, p.cfg.IDField)
	}

	rows, err := p.grid.Rows(startRow, rowCount)
	if err != nil {
		return nil, fmt.Errorf("read rows %d..%d: %w", startRow, startRow+rowCount-1, err)
	}

	opts := rowmap.Options{
		IDField:        p.cfg.IDField,
		IncludeIDField: p.cfg.IncludeIDField,
	}

	summary := &Summary{}
	for i, row := range rows {
		rowNo := startRow + i
		summary.AttemptedRows++

		doc, id := rowmap.BuildDocument(headers, row, idCol, opts)
		if id == "" {
			summary.SkippedNoID++
			continue
		}

		req := wire.WriteRequest{
			Collection: p.cfg.Collection,
			Doc:        doc,
			DocID:      id,
			DryRun:     dryRun,
		}
		if _, err := p.writer.Write(ctx, req, cred); err != nil {
			summary.SkippedErrors++
			summary.Errors = append(summary.Errors, RowError{RowNo: rowNo, Message: err.Error()})
			p.logger.Warn("row write failed", "row", rowNo, "id", id, "error", err)
			continue
		}
		summary.Sent++
	}

	p.logger.Info("batch complete",
		"attempted", summary.AttemptedRows,
		"sent", summary.Sent,
		"skipped_no_id", summary.SkippedNoID,
		"skipped_error", summary.SkippedErrors,
	)
	return summary, nil
}
