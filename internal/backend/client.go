// Package backend is the HTTP transport shared by the analysis, explanation
// and remote speech clients. Each call is exactly one round trip.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxDetail = 200

// Client performs JSON round trips against the reading backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL. A zero timeout means no client-side
// bound beyond the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client that uses hc for transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// PostJSON sends body as JSON to path and returns the raw response body
// of a 2xx answer.
func (c *Client) PostJSON(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: path, Err: err}
	}
	return data, nil
}

// Get issues a GET for path with the given query and returns the open
// response body of a 2xx answer. The caller must close it.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.do(req, path)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &NetworkError{Endpoint: path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &BadResponseError{
			Endpoint: path,
			Status:   resp.StatusCode,
			Detail:   extractDetail(raw),
		}
	}
	return resp, nil
}

// extractDetail pulls a FastAPI-style {"detail": "..."} message out of an
// error body, falling back to a trimmed excerpt.
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			return truncate(s)
		}
		return truncate(string(body.Detail))
	}
	return truncate(strings.TrimSpace(string(raw)))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetail {
		return s
	}
	return string(r[:maxDetail-3]) + "..."
}
