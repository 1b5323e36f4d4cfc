// Package store persists schema-less documents addressed by collection
// and identifier.
//
// Three backends implement the same contract: an in-memory map (default,
// and the test double), Postgres (JSONB documents), and Redis (one hash
// per document). All of them provide field-level merge semantics: a merge
// write upserts only the supplied fields and leaves other existing fields
// untouched, while a non-merge write replaces the whole document.
//
// Creation and update timestamps are assigned here, never trusted from
// the caller.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// ErrPermissionDenied marks a permission-class persistence failure. The
// write endpoint reports it distinctly (403) from other store failures.
var ErrPermissionDenied = errors.New("permission denied by document store")

// Document is a stored record: its fields plus server-assigned timestamps.
type Document struct {
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the document persistence contract shared by all backends.
type Store interface {
	// Write persists fields at collection/id. With merge, existing fields
	// not present in the write survive; without it the document is
	// replaced. The returned Document reflects the stored state.
	Write(ctx context.Context, collection, id string, fields map[string]any, merge bool) (Document, error)

	// Get returns the document at collection/id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Path renders the canonical document path reported in responses.
func Path(collection, id string) string {
	return collection + "/" + id
}

// copyFields returns a shallow copy so callers and the store never share
// a mutable map.
func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
