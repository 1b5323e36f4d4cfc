package web

// handlers.go implements the write endpoint contract. Per request:
// method check (routing), auth check (middleware, before any body
// reading), then body validation in a fixed order, then either the
// dry-run branch or persistence. Failure responses are plain text;
// success responses are JSON.

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Decron/SheetFire/internal/logging"
	"github.com/Decron/SheetFire/internal/store"
	"github.com/Decron/SheetFire/internal/wire"
)

// collectionPattern bounds collection names: path-safe, non-empty, and
// short enough to embed in a document path.
var collectionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// rawWrite decodes the request body with enough looseness to validate
// shape errors precisely: doc and docId stay raw until checked.
type rawWrite struct {
	Collection string          `json:"collection"`
	Doc        json.RawMessage `json:"doc"`
	DocID      json.RawMessage `json:"docId"`
	Merge      *bool           `json:"merge"`
	DryRun     bool            `json:"dryRun"`
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context())

	var raw rawWrite
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.rejectWrite(w, "bad_request", "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Validation order is part of the contract: collection, then doc,
	// then docId. Each failure is a hard 400.
	if !collectionPattern.MatchString(raw.Collection) {
		s.rejectWrite(w, "bad_request", "collection must match ^[A-Za-z0-9_-]{1,128}$", http.StatusBadRequest)
		return
	}

	fields, err := decodeDoc(raw.Doc)
	if err != nil {
		s.rejectWrite(w, "bad_request", err.Error(), http.StatusBadRequest)
		return
	}

	docID, err := decodeDocID(raw.DocID)
	if err != nil {
		s.rejectWrite(w, "bad_request", err.Error(), http.StatusBadRequest)
		return
	}

	merge := true
	if raw.Merge != nil {
		merge = *raw.Merge
	}

	// An empty identifier means the endpoint assigns a fresh one.
	created := false
	if docID == "" {
		docID = uuid.NewString()
		created = true
	}
	path := store.Path(raw.Collection, docID)

	if raw.DryRun {
		if s.metrics != nil {
			s.metrics.DryRunsTotal.Inc()
		}
		logger.Info("dry run", "path", path, "merge", merge)
		writeJSON(w, wire.DryRunResponse{
			OK:           true,
			DryRun:       true,
			WouldWriteTo: path,
			Merge:        merge,
			Payload:      augment(fields),
		})
		return
	}

	stored, err := s.store.Write(r.Context(), raw.Collection, docID, fields, merge)
	if err != nil {
		if errors.Is(err, store.ErrPermissionDenied) {
			logger.Error("store permission denied", "path", path, "error", err)
			s.rejectWrite(w, "permission_denied",
				"permission denied writing to the document store; check the server's store credentials", http.StatusForbidden)
			return
		}
		logger.Error("store write failed", "path", path, "error", err)
		s.rejectWrite(w, "error", "write failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.WritesTotal.WithLabelValues("ok").Inc()
		s.metrics.WriteDuration.Observe(time.Since(start).Seconds())
		if created {
			s.metrics.DocsCreatedTotal.Inc()
		}
	}

	logger.Info("document written",
		"path", path,
		"merge", merge,
		"fields", len(fields),
		"created_id", created,
	)

	writeJSON(w, wire.WriteResponse{
		OK:        true,
		ID:        docID,
		Path:      path,
		Merge:     merge,
		WriteTime: stored.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// rejectWrite sends a plain-text failure and counts it.
func (s *Server) rejectWrite(w http.ResponseWriter, outcome, msg string, status int) {
	if s.metrics != nil {
		s.metrics.WritesTotal.WithLabelValues(outcome).Inc()
	}
	http.Error(w, msg, status)
}

// decodeDoc enforces that doc is present and a non-array JSON object.
func decodeDoc(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New("doc is required and must be an object")
	}
	if trimmed[0] != '{' {
		return nil, errors.New("doc must be an object, not an array or scalar")
	}
	var fields map[string]any
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errors.New("doc must be an object, not an array or scalar")
	}
	return fields, nil
}

// decodeDocID enforces that docId, if present, is a string.
func decodeDocID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	var id string
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return "", errors.New("docId must be a string")
	}
	return id, nil
}

// augment reports the payload as the store would persist it for a fresh
// document, timestamps included. Nothing is written on this path.
func augment(fields map[string]any) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["createdAt"] = now
	out["updatedAt"] = now
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
