package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Client talks to the grading backend. The zero token client sends no
// Authorization header; WithToken returns one that always does.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a backend client for baseURL. A zero timeout leaves
// requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: instrument(http.DefaultTransport),
		},
	}
}

// NewClientWithHTTPClient wraps an existing http.Client, used by tests and
// by callers that need their own transport.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// WithToken returns a copy of the client that sends
// "Authorization: Bearer <token>" on every request. An empty token
// returns an unauthenticated copy.
func (c *Client) WithToken(token string) *Client {
	base := c.unauthenticated()
	if token == "" {
		return &Client{baseURL: c.baseURL, httpClient: base}
	}

	authed := *base
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}),
		Base: base.Transport,
	}
	return &Client{baseURL: c.baseURL, httpClient: &authed, token: token}
}

// HasToken reports whether requests carry a bearer token
func (c *Client) HasToken() bool {
	return c.token != ""
}

// unauthenticated returns the http.Client without any token transport
func (c *Client) unauthenticated() *http.Client {
	if t, ok := c.httpClient.Transport.(*oauth2.Transport); ok {
		plain := *c.httpClient
		plain.Transport = t.Base
		return &plain
	}
	return c.httpClient
}

// do sends a JSON request and decodes a JSON response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}
