// Package wire defines the JSON types exchanged between the push pipeline
// and the write endpoint. Both sides share these definitions so the
// protocol is validated at the boundary and typed everywhere else.
package wire

// SecretHeader is the request header carrying the shared secret.
const SecretHeader = "x-app-secret"

// WriteRequest is the body of a POST to the write endpoint.
type WriteRequest struct {
	// Collection names the target collection. Must match
	// ^[A-Za-z0-9_-]{1,128}$.
	Collection string `json:"collection"`

	// Doc is the document to persist. Must be a JSON object, never an
	// array or scalar.
	Doc map[string]any `json:"doc"`

	// DocID targets an existing or explicit document. Empty or absent
	// means the endpoint assigns a fresh identifier.
	DocID string `json:"docId,omitempty"`

	// Merge selects field-level upsert (true, the default) or full
	// replacement (false). A pointer distinguishes "absent" from "false".
	Merge *bool `json:"merge,omitempty"`

	// DryRun validates and reports the intended write without persisting.
	DryRun bool `json:"dryRun,omitempty"`
}

// MergeOrDefault resolves the effective merge flag (default true).
func (r *WriteRequest) MergeOrDefault() bool {
	if r.Merge == nil {
		return true
	}
	return *r.Merge
}

// WriteResponse reports a persisted write.
type WriteResponse struct {
	OK        bool   `json:"ok"`
	ID        string `json:"id"`
	Path      string `json:"path"`
	Merge     bool   `json:"merge"`
	WriteTime string `json:"writeTime,omitempty"`
}

// DryRunResponse reports what a write would have done. No persistence
// occurred when this response is returned.
type DryRunResponse struct {
	OK           bool           `json:"ok"`
	DryRun       bool           `json:"dryRun"`
	WouldWriteTo string         `json:"wouldWriteTo"`
	Merge        bool           `json:"merge"`
	Payload      map[string]any `json:"payload"`
}
