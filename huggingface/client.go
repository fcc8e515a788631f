// Package huggingface is a small client for the Hugging Face model registry.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sammcj/hfscout/logging"
)

const (
	DefaultBaseURL = "https://huggingface.co"

	DefaultSearchLimit   = 5
	DefaultTrendingLimit = 10

	// maxBodyBytes caps how much of any single response is read
	maxBodyBytes = 16 << 20
)

// Client handles communication with the Hugging Face registry
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a registry client. An empty baseURL uses the public registry, and an
// empty token sends unauthenticated requests.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the registry root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// escapeID path-escapes each segment of a model ID so it cannot alter the request path
// or query
func escapeID(modelID string) string {
	parts := strings.Split(modelID, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// makeRequest issues a GET against the registry and records metrics under endpoint.
// The caller owns the response body.
func (c *Client) makeRequest(ctx context.Context, endpoint, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(endpoint, 0, start)
		return nil, fmt.Errorf("network request to %s failed: %w", endpoint, err)
	}
	observe(endpoint, resp.StatusCode, start)
	return resp, nil
}

// FetchMetadata retrieves a model's registry metadata. Missing models return ErrNotFound
// and access-controlled ones ErrGated.
func (c *Client) FetchMetadata(ctx context.Context, modelID string) (*ModelInfo, error) {
	resp, err := c.makeRequest(ctx, "metadata", "/api/models/"+escapeID(modelID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrGated
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var info ModelInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &info, nil
}

// FetchConfig retrieves config.json, falling back to the resolve path when the raw path
// fails for a reason other than access control. Any failure yields nil.
func (c *Client) FetchConfig(ctx context.Context, modelID string) map[string]any {
	resp, err := c.makeRequest(ctx, "config", "/"+escapeID(modelID)+"/raw/main/config.json", nil)
	if err != nil {
		logging.DebugLogger.Printf("config fetch for %s failed: %v\n", modelID, err)
		return nil
	}
	status := resp.StatusCode
	if status == http.StatusOK {
		return decodeObject(resp, modelID, "config")
	}
	resp.Body.Close()

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		logging.InfoLogger.Printf("access restricted for %s config, it may be a gated model\n", modelID)
		return nil
	}

	resp, err = c.makeRequest(ctx, "config", "/"+escapeID(modelID)+"/resolve/main/config.json", nil)
	if err != nil {
		logging.DebugLogger.Printf("config fallback fetch for %s failed: %v\n", modelID, err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil
	}
	return decodeObject(resp, modelID, "config")
}

// FetchReadme retrieves the model card markdown, or nil
func (c *Client) FetchReadme(ctx context.Context, modelID string) *string {
	resp, err := c.makeRequest(ctx, "readme", "/"+escapeID(modelID)+"/raw/main/README.md", nil)
	if err != nil {
		logging.DebugLogger.Printf("readme fetch for %s failed: %v\n", modelID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logging.DebugLogger.Printf("failed to read readme for %s: %v\n", modelID, err)
		return nil
	}
	readme := string(body)
	return &readme
}

// FetchTokenizerConfig retrieves tokenizer_config.json, or nil
func (c *Client) FetchTokenizerConfig(ctx context.Context, modelID string) map[string]any {
	resp, err := c.makeRequest(ctx, "tokenizer", "/"+escapeID(modelID)+"/raw/main/tokenizer_config.json", nil)
	if err != nil {
		logging.DebugLogger.Printf("tokenizer config fetch for %s failed: %v\n", modelID, err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil
	}
	return decodeObject(resp, modelID, "tokenizer config")
}

// decodeObject reads a JSON object body and closes it, returning nil on any failure
func decodeObject(resp *http.Response, modelID, what string) map[string]any {
	defer resp.Body.Close()

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		logging.DebugLogger.Printf("failed to decode %s for %s: %v\n", what, modelID, err)
		return nil
	}
	return out
}

// Search finds models matching query, most downloaded first
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ModelSummary, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := url.Values{}
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "downloads")
	q.Set("direction", "-1")
	return c.listModels(ctx, "search", q)
}

// Trending lists the most downloaded text generation models
func (c *Client) Trending(ctx context.Context, limit int) ([]ModelSummary, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	q := url.Values{}
	q.Set("sort", "downloads")
	q.Set("direction", "-1")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("filter", "text-generation")
	return c.listModels(ctx, "trending", q)
}

func (c *Client) listModels(ctx context.Context, endpoint string, q url.Values) ([]ModelSummary, error) {
	resp, err := c.makeRequest(ctx, endpoint, "/api/models", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var models []ModelSummary
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&models); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if models == nil {
		models = []ModelSummary{}
	}
	return models, nil
}
