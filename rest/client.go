// Package rest implements [trickle.API] for the backend's JSON request/response
// endpoints. Error responses are decoded once here into *trickle.APIError.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/trickle"
	tricklejson "github.com/fwojciec/trickle/json"
	"go.uber.org/zap"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Interface compliance check.
var _ trickle.API = (*Client)(nil)

// Client implements [trickle.API] over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send performs call and returns the JSON payload. A response carrying a
// detail field, or a non-2xx status, is returned as *trickle.APIError.
func (c *Client) Send(ctx context.Context, call trickle.Call) (json.RawMessage, error) {
	if err := call.Validate(); err != nil {
		return nil, fmt.Errorf("rest: %w", err)
	}
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	body, err := tricklejson.EncodeBody(call.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: %w", err)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	url := c.baseURL + "/" + strings.TrimLeft(call.Route, "/")
	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("rest: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rest: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("rest: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	c.logger.Debug("call",
		zap.String("method", method),
		zap.String("route", call.Route),
		zap.Int("status", resp.StatusCode),
	)

	payload, err := tricklejson.DecodeResponse(resp.StatusCode, data)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", method, call.Route, err)
	}
	return payload, nil
}
