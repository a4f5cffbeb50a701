// Package search loads staged elements into an Elasticsearch-compatible
// index over its REST API and queries them back.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/staging"
)

const defaultHTTPClientTO = 30 * time.Second

// Client talks to a single Elasticsearch-compatible endpoint.
type Client struct {
	BaseURL    string
	Username   string
	Password   string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a search client for the given endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultHTTPClientTO},
	}
}

// elementMapping is the index mapping for staged elements.
var elementMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"type":     map[string]string{"type": "keyword"},
			"text":     map[string]string{"type": "text"},
			"metadata": map[string]interface{}{"type": "object", "enabled": true},
		},
	},
}

// EnsureIndex creates the index with the element mapping unless it exists.
func (c *Client) EnsureIndex(ctx context.Context, indexName string) error {
	status, _, err := c.do(ctx, http.MethodHead, "/"+indexName, "", nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	body, err := json.Marshal(elementMapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	status, payload, err := c.do(ctx, http.MethodPut, "/"+indexName, "application/json", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError("create index", status, payload)
	}
	return nil
}

// Load bulk-indexes elements and returns the number of indexed documents.
func (c *Client) Load(ctx context.Context, indexName string, elements element.Elements) (int, error) {
	if len(elements) == 0 {
		return 0, nil
	}
	payload, err := staging.BulkActions(indexName, elements)
	if err != nil {
		return 0, err
	}
	status, respBody, err := c.do(ctx, http.MethodPost, "/_bulk", "application/x-ndjson", payload)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, apiError("bulk", status, respBody)
	}
	var resp bulkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}
	indexed := 0
	for _, item := range resp.Items {
		if item.Index.Error == nil {
			indexed++
			continue
		}
	}
	if resp.Errors {
		return indexed, fmt.Errorf("bulk: %d of %d documents failed", len(resp.Items)-indexed, len(resp.Items))
	}
	return indexed, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID    string          `json:"_id"`
			Error json.RawMessage `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}

// Hit is a single search result.
type Hit struct {
	ID       string           `json:"id"`
	Score    float64          `json:"score"`
	Type     string           `json:"type"`
	Text     string           `json:"text"`
	Metadata element.Metadata `json:"metadata,omitempty"`
}

// Search runs a match query against the text field.
func (c *Client) Search(ctx context.Context, indexName, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 10
	}
	body, err := json.Marshal(map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"match": map[string]interface{}{"text": query}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	status, payload, err := c.do(ctx, http.MethodPost, "/"+indexName+"/_search", "application/json", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError("search", status, payload)
	}
	var resp struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source struct {
					Type     string           `json:"type"`
					Text     string           `json:"text"`
					Metadata element.Metadata `json:"metadata"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]Hit, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		out = append(out, Hit{
			ID:       hit.ID,
			Score:    hit.Score,
			Type:     hit.Source.Type,
			Text:     hit.Source.Text,
			Metadata: hit.Source.Metadata,
		})
	}
	return out, nil
}

// Refresh makes recently indexed documents visible to search.
func (c *Client) Refresh(ctx context.Context, indexName string) error {
	status, payload, err := c.do(ctx, http.MethodPost, "/"+indexName+"/_refresh", "", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError("refresh", status, payload)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.APIKey)
	} else if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func apiError(op string, status int, payload []byte) error {
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	_ = json.Unmarshal(payload, &errResp)
	if errResp.Error.Reason != "" {
		return fmt.Errorf("%s: API error (%s): %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: API error: status %d", op, status)
}
