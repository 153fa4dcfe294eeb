// Package qdrant provides a REST client for Qdrant vector database.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for Qdrant vector database.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// Config configures the Qdrant client.
type Config struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewClient creates a new Qdrant client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Collection returns the collection name this client operates on.
func (c *Client) Collection() string {
	return c.collection
}

// Point is a single vector point with its payload.
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

// Filter is a Qdrant payload filter. Only exact-match conditions are needed.
type Filter struct {
	Must []FieldCondition `json:"must,omitempty"`
}

// FieldCondition matches a payload field against an exact value.
type FieldCondition struct {
	Key   string     `json:"key"`
	Match MatchValue `json:"match"`
}

// MatchValue is the value side of a field condition.
type MatchValue struct {
	Value interface{} `json:"value"`
}

// MatchField builds a filter requiring an exact payload field match.
func MatchField(key string, value interface{}) Filter {
	return Filter{Must: []FieldCondition{{Key: key, Match: MatchValue{Value: value}}}}
}

// SearchRequest is the request body for a vector search.
type SearchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
	Filter      *Filter   `json:"filter,omitempty"`
}

// SearchResult is a single search result from Qdrant.
type SearchResult struct {
	ID      interface{}            `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

type searchResponse struct {
	Result []SearchResult `json:"result"`
	Status interface{}    `json:"status"`
	Time   float64        `json:"time"`
}

// Search performs a vector similarity search in the configured collection.
// A nil filter searches the whole collection.
func (c *Client) Search(ctx context.Context, vector []float32, limit int, filter *Filter) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	reqBody := SearchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
		Filter:      filter,
	}

	var searchResp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", c.collection)
	if err := c.do(ctx, http.MethodPost, path, reqBody, &searchResp); err != nil {
		return nil, err
	}

	return searchResp.Result, nil
}

// Upsert inserts or replaces points in the configured collection.
func (c *Client) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	reqBody := map[string]interface{}{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", c.collection)
	return c.do(ctx, http.MethodPut, path, reqBody, nil)
}

// DeleteByFilter removes all points matching the filter.
func (c *Client) DeleteByFilter(ctx context.Context, filter Filter) error {
	reqBody := map[string]interface{}{"filter": filter}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", c.collection)
	return c.do(ctx, http.MethodPost, path, reqBody, nil)
}

type countResponse struct {
	Result struct {
		Count int64 `json:"count"`
	} `json:"result"`
}

// CountByFilter returns the number of points matching the filter.
func (c *Client) CountByFilter(ctx context.Context, filter Filter) (int64, error) {
	reqBody := map[string]interface{}{"filter": filter, "exact": true}

	var countResp countResponse
	path := fmt.Sprintf("/collections/%s/points/count", c.collection)
	if err := c.do(ctx, http.MethodPost, path, reqBody, &countResp); err != nil {
		return 0, err
	}

	return countResp.Result.Count, nil
}

// EnsureCollection creates the configured collection if it does not exist.
// Vectors use cosine distance.
func (c *Client) EnsureCollection(ctx context.Context, vectorSize int) error {
	exists, err := c.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	reqBody := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	path := fmt.Sprintf("/collections/%s", c.collection)
	return c.do(ctx, http.MethodPut, path, reqBody, nil)
}

func (c *Client) collectionExists(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create collection request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("collection request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("qdrant returned %d: %s", resp.StatusCode, string(body))
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
