// Package client issues write requests to the endpoint on behalf of the
// push pipeline.
//
// The client is intentionally thin: one synchronous POST per document, no
// retry, no backoff. Per-row failure isolation lives in the batch
// processor; the client's only job is to serialize the request, attach the
// credential, and classify the outcome.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Decron/SheetFire/internal/wire"
)

// Credential is the shared secret presented to the write endpoint. It is
// passed explicitly per operation and never stored in package state.
type Credential struct {
	Secret string
}

// Empty reports whether the credential carries no secret. Callers abort
// before sending anything when it does.
func (c Credential) Empty() bool {
	return c.Secret == ""
}

// HTTPError is a non-2xx response from the endpoint. The batch processor
// records Status and Body in its run summary.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint returned %d: %s", e.Status, e.Body)
}

// Client talks to one write endpoint URL.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the given endpoint URL. httpClient may be nil,
// in which case http.DefaultClient is used (no timeout beyond transport
// defaults; a deliberate v1 simplicity).
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Result is the parsed endpoint response for either branch of a write.
type Result struct {
	// Write is set for persisted writes.
	Write *wire.WriteResponse
	// DryRun is set when the request carried dryRun: true.
	DryRun *wire.DryRunResponse
}

// Write sends one document to the endpoint. An empty docID asks the
// endpoint to assign a fresh identifier. Any status >= 300 is returned as
// an *HTTPError carrying the status code and response body text.
func (c *Client) Write(ctx context.Context, req wire.WriteRequest, cred Credential) (*Result, error) {
	if cred.Empty() {
		return nil, fmt.Errorf("no secret provided")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(wire.SecretHeader, cred.Secret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if req.DryRun {
		var dry wire.DryRunResponse
		if err := json.Unmarshal(respBody, &dry); err != nil {
			return nil, fmt.Errorf("decode dry-run response: %w", err)
		}
		return &Result{DryRun: &dry}, nil
	}

	var wr wire.WriteResponse
	if err := json.Unmarshal(respBody, &wr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &Result{Write: &wr}, nil
}
