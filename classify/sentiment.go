package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultInferenceBaseURL = "https://api-inference.huggingface.co/models"
	defaultSentimentModel   = "distilbert-base-uncased-finetuned-sst-2-english"
	defaultSentimentTimeout = 60 * time.Second
)

// SentimentOption configures the sentiment client.
type SentimentOption func(*SentimentClient)

// WithSentimentBaseURL overrides the inference API base URL.
func WithSentimentBaseURL(baseURL string) SentimentOption {
	return func(c *SentimentClient) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithSentimentModel overrides the hosted model identifier.
func WithSentimentModel(model string) SentimentOption {
	return func(c *SentimentClient) {
		if model != "" {
			c.Model = model
		}
	}
}

// WithSentimentHTTPClient overrides the HTTP client.
func WithSentimentHTTPClient(httpClient *http.Client) SentimentOption {
	return func(c *SentimentClient) {
		if httpClient != nil {
			c.HTTPClient = httpClient
		}
	}
}

// SentimentClient scores text against a hosted sentiment model.
type SentimentClient struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// Prediction is a single label with a confidence score.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewSentimentClient creates a sentiment inference client. The API key falls
// back to the HF_API_TOKEN environment variable when empty.
func NewSentimentClient(apiKey string, opts ...SentimentOption) *SentimentClient {
	c := &SentimentClient{
		BaseURL:    defaultInferenceBaseURL,
		Model:      defaultSentimentModel,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultSentimentTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("HF_API_TOKEN")
	}
	return c
}

type sentimentRequest struct {
	Inputs []string `json:"inputs"`
}

// Classify scores each text and returns its top prediction.
func (c *SentimentClient) Classify(ctx context.Context, texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input texts provided")
	}
	reqBody, err := json.Marshal(sentimentRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+c.Model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sentiment API error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	// response is a list of candidate labels per input text
	var out [][]Prediction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("sentiment API returned %d results for %d texts", len(out), len(texts))
	}
	predictions := make([]Prediction, len(out))
	for i, candidates := range out {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("sentiment API returned no labels for text %d", i)
		}
		top := candidates[0]
		for _, candidate := range candidates[1:] {
			if candidate.Score > top.Score {
				top = candidate
			}
		}
		predictions[i] = top
	}
	return predictions, nil
}
