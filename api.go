package trickle

import (
	"context"
	"encoding/json"
)

// Call describes one request/response exchange with the backend API.
type Call struct {
	Route  string // path relative to the API base URL, e.g. "/user/alice"
	Method string // empty = GET
	Body   any    // JSON-encoded when non-nil
}

// API sends request/response calls. A successful call returns the raw JSON
// payload; a server-reported failure is returned as *APIError so callers never
// inspect payloads for a detail field themselves.
type API interface {
	Send(ctx context.Context, call Call) (json.RawMessage, error)
}
