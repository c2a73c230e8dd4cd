package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.sea-lion.ai/v1"
	defaultModel   = "aisingapore/Gemma-SEA-LION-v3-9B-IT"
	defaultTimeout = 45 * time.Second

	maxErrorBodySize = 4 << 10
)

// Client talks to the hosted chat-completion API. It is immutable after
// construction and safe to share across concurrent request handlers.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a Client with the given API key and model against the
// default base URL. An empty model selects the default advisory model.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL
// (for testing).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithTimeout returns a copy of the client with the given per-request
// timeout. Non-positive values leave the default in place.
func (c *Client) WithTimeout(d time.Duration) *Client {
	out := *c
	if d > 0 {
		out.timeout = d
	}
	return &out
}

// Model returns the fixed model identifier requests are sent with.
func (c *Client) Model() string { return c.model }

// BaseURL returns the provider endpoint base.
func (c *Client) BaseURL() string { return c.baseURL }

// Complete sends a two-message completion (the fixed system instruction
// followed by the composed user content) and returns the first choice's
// text, or empty string when the provider returns no choices. The call is
// bounded by the client timeout and is never retried; failures surface
// immediately so the boundary can answer with its generic error shape.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}
