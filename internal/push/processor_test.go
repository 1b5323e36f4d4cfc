package push

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Decron/SheetFire/internal/client"
	"github.com/Decron/SheetFire/internal/config"
	"github.com/Decron/SheetFire/internal/wire"
)

// fakeGrid is an in-memory grid.Reader.
type fakeGrid struct {
	headers []string
	rows    [][]any
	err     error
}

func (g *fakeGrid) Headers() ([]string, error) {
	return g.headers, g.err
}

func (g *fakeGrid) Rows(start, count int) ([][]any, error) {
	if g.err != nil {
		return nil, g.err
	}
	first := start - 2
	if first >= len(g.rows) {
		return nil, nil
	}
	last := first + count
	if last > len(g.rows) {
		last = len(g.rows)
	}
	return g.rows[first:last], nil
}

// fakeWriter records requests and fails for configured identifiers.
type fakeWriter struct {
	requests []wire.WriteRequest
	failIDs  map[string]error
}

func (w *fakeWriter) Write(ctx context.Context, req wire.WriteRequest, cred client.Credential) (*client.Result, error) {
	if err, ok := w.failIDs[req.DocID]; ok {
		return nil, err
	}
	w.requests = append(w.requests, req)
	return &client.Result{Write: &wire.WriteResponse{OK: true, ID: req.DocID}}, nil
}

func testConfig() config.Effective {
	return config.Effective{
		Endpoint:   "http://example.invalid/api/write",
		Collection: "widgets",
		IDField:    "docId",
		Secret:     "s",
	}
}

func cred() client.Credential { return client.Credential{Secret: "s"} }

func TestRunPushesRowsInOrder(t *testing.T) {
	g := &fakeGrid{
		headers: []string{"notes", "docId", "name", "qty"},
		rows: [][]any{
			{"x", "a-1", "Pencils", float64(12)},
			{"x", "a-2", "Pens", float64(3)},
		},
	}
	w := &fakeWriter{}
	p := New(g, w, testConfig(), nil)

	s, err := p.Run(context.Background(), 2, 2, cred(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.AttemptedRows != 2 || s.Sent != 2 || s.SkippedNoID != 0 || s.SkippedErrors != 0 {
		t.Errorf("summary = %+v", s)
	}
	if len(w.requests) != 2 {
		t.Fatalf("writes = %d", len(w.requests))
	}
	if w.requests[0].DocID != "a-1" || w.requests[1].DocID != "a-2" {
		t.Errorf("write order = %q, %q", w.requests[0].DocID, w.requests[1].DocID)
	}
	req := w.requests[0]
	if req.Collection != "widgets" {
		t.Errorf("collection = %q", req.Collection)
	}
	if req.Doc["name"] != "Pencils" || req.Doc["qty"] != float64(12) {
		t.Errorf("doc = %#v", req.Doc)
	}
	if _, ok := req.Doc["notes"]; ok {
		t.Error("column left of the identifier leaked into the document")
	}
}

func TestRunSkipsBlankIdentifiers(t *testing.T) {
	g := &fakeGrid{
		headers: []string{"docId", "name"},
		rows: [][]any{
			{"a-1", "Pencils"},
			{"   ", "no id"},
			{"", "also no id"},
			{"a-2", "Pens"},
		},
	}
	w := &fakeWriter{}
	p := New(g, w, testConfig(), nil)

	s, err := p.Run(context.Background(), 2, 4, cred(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Sent != 2 || s.SkippedNoID != 2 || s.SkippedErrors != 0 {
		t.Errorf("summary = %+v", s)
	}
}

func TestRunIsolatesRowFailures(t *testing.T) {
	g := &fakeGrid{
		headers: []string{"docId", "name"},
		rows: [][]any{
			{"a-1", "ok"},
			{"a-2", "fails"},
			{"a-3", "ok"},
		},
	}
	w := &fakeWriter{failIDs: map[string]error{
		"a-2": &client.HTTPError{Status: 500, Body: "write failed: disk on fire"},
	}}
	p := New(g, w, testConfig(), nil)

	s, err := p.Run(context.Background(), 2, 3, cred(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Sent != 2 || s.SkippedErrors != 1 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Errors) != 1 {
		t.Fatalf("errors = %+v", s.Errors)
	}
	if s.Errors[0].RowNo != 3 {
		t.Errorf("error row = %d, want 3", s.Errors[0].RowNo)
	}
	if !strings.Contains(s.Errors[0].Message, "500") {
		t.Errorf("error message = %q", s.Errors[0].Message)
	}
}

func TestRunAbortsWhenIdentifierColumnMissing(t *testing.T) {
	g := &fakeGrid{
		headers: []string{"name", "qty"},
		rows:    [][]any{{"Pencils", float64(1)}},
	}
	w := &fakeWriter{}
	p := New(g, w, testConfig(), nil)

	_, err := p.Run(context.Background(), 2, 1, cred(), false)
	if !errors.Is(err, ErrIdentifierColumnMissing) {
		t.Fatalf("err = %v", err)
	}
	if len(w.requests) != 0 {
		t.Error("writes attempted despite configuration error")
	}
}

func TestRunAbortsOnEmptyCredential(t *testing.T) {
	g := &fakeGrid{headers: []string{"docId"}, rows: [][]any{{"a-1"}}}
	w := &fakeWriter{}
	p := New(g, w, testConfig(), nil)

	if _, err := p.Run(context.Background(), 2, 1, client.Credential{}, false); err == nil {
		t.Fatal("expected an error for an empty credential")
	}
	if len(w.requests) != 0 {
		t.Error("writes attempted without a secret")
	}
}

func TestRunForwardsDryRun(t *testing.T) {
	g := &fakeGrid{headers: []string{"docId", "name"}, rows: [][]any{{"a-1", "Pencils"}}}
	w := &fakeWriter{}
	p := New(g, w, testConfig(), nil)

	if _, err := p.Run(context.Background(), 2, 1, cred(), true); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(w.requests) != 1 || !w.requests[0].DryRun {
		t.Errorf("requests = %+v", w.requests)
	}
}

func TestSummaryReportCapsErrors(t *testing.T) {
	s := &Summary{AttemptedRows: 5, Sent: 1, SkippedErrors: 4}
	for i := 2; i <= 5; i++ {
		s.Errors = append(s.Errors, RowError{RowNo: i, Message: "boom"})
	}

	report := s.Report(2)
	if !strings.Contains(report, "row 2: boom") || !strings.Contains(report, "row 3: boom") {
		t.Errorf("report = %q", report)
	}
	if strings.Contains(report, "row 4") {
		t.Errorf("report should cap at 2 errors: %q", report)
	}
	if !strings.Contains(report, "+2 more") {
		t.Errorf("report = %q", report)
	}
}
