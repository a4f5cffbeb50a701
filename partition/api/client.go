// Package api provides a client for a hosted document partitioning API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/elemstage/elemstage/element"
)

const (
	defaultBaseURL      = "https://api.unstructuredapp.io/general/v0"
	generalEndpoint     = "/general"
	defaultHTTPClientTO = 120 * time.Second
)

// Client calls the hosted general partition endpoint.
type Client struct {
	BaseURL    string
	APIKey     string
	Strategy   string
	HTTPClient *http.Client
}

// NewClient creates a partition API client. The key falls back to the
// PARTITION_API_KEY environment variable.
func NewClient(apiKey string) *Client {
	c := &Client{
		BaseURL:    defaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultHTTPClientTO},
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("PARTITION_API_KEY")
	}
	return c
}

// apiElement mirrors the hosted API response shape.
type apiElement struct {
	ElementID string                 `json:"element_id"`
	Type      string                 `json:"type"`
	Text      string                 `json:"text"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Partition uploads a document and returns the extracted elements.
func (c *Client) Partition(ctx context.Context, fileName string, data []byte) (element.Elements, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if c.Strategy != "" {
		if err := writer.WriteField("strategy", c.Strategy); err != nil {
			return nil, fmt.Errorf("write strategy field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+generalEndpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("unstructured-api-key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(payload, &errResp)
		if errResp.Detail != "" {
			return nil, fmt.Errorf("API error: %s", errResp.Detail)
		}
		return nil, fmt.Errorf("API error: %s", resp.Status)
	}
	var items []apiElement
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := make(element.Elements, 0, len(items))
	for _, item := range items {
		el := &element.Element{
			ID:       item.ElementID,
			Category: element.Category(item.Type),
			Text:     item.Text,
			Metadata: element.Metadata(item.Metadata),
		}
		if el.ID == "" {
			el = element.New(el.Category, el.Text, el.Metadata)
		}
		out = append(out, el)
	}
	return out, nil
}
