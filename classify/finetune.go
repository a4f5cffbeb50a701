package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/elemstage/elemstage/staging"
)

const (
	defaultTuneBaseURL   = "https://api.openai.com/v1"
	defaultBaseModel     = "babbage-002"
	defaultTuneTimeout   = 120 * time.Second
	defaultPollInterval  = 10 * time.Second
	jobStatusSucceeded   = "succeeded"
	jobStatusFailed      = "failed"
	jobStatusCancelled   = "cancelled"
	completionsEndpoint  = "/completions"
	filesEndpoint        = "/files"
	fineTuningJobsPrefix = "/fine_tuning/jobs"
)

// TuneOption configures the fine-tune client.
type TuneOption func(*TuneClient)

// WithTuneBaseURL overrides the API base URL.
func WithTuneBaseURL(baseURL string) TuneOption {
	return func(c *TuneClient) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithBaseModel overrides the pretrained model the job starts from.
func WithBaseModel(model string) TuneOption {
	return func(c *TuneClient) {
		if model != "" {
			c.BaseModel = model
		}
	}
}

// WithTuneHTTPClient overrides the HTTP client.
func WithTuneHTTPClient(httpClient *http.Client) TuneOption {
	return func(c *TuneClient) {
		if httpClient != nil {
			c.HTTPClient = httpClient
		}
	}
}

// WithPollInterval sets the WaitForJob polling interval.
func WithPollInterval(interval time.Duration) TuneOption {
	return func(c *TuneClient) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// TuneClient sequences a hosted fine-tune workflow: upload labeled examples,
// create a job, poll until it settles and classify with the tuned model. The
// training loop itself runs entirely on the hosted side.
type TuneClient struct {
	BaseURL      string
	APIKey       string
	BaseModel    string
	PollInterval time.Duration
	HTTPClient   *http.Client
}

// Job describes a hosted fine-tune job.
type Job struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Model          string `json:"model"`
	FineTunedModel string `json:"fine_tuned_model"`
	TrainingFile   string `json:"training_file"`
	Error          *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	switch j.Status {
	case jobStatusSucceeded, jobStatusFailed, jobStatusCancelled:
		return true
	}
	return false
}

// NewTuneClient creates a fine-tune workflow client. The API key falls back
// to the OPENAI_API_KEY environment variable when empty.
func NewTuneClient(apiKey string, opts ...TuneOption) *TuneClient {
	c := &TuneClient{
		BaseURL:      defaultTuneBaseURL,
		APIKey:       apiKey,
		BaseModel:    defaultBaseModel,
		PollInterval: defaultPollInterval,
		HTTPClient:   &http.Client{Timeout: defaultTuneTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return c
}

// UploadTrainingFile stages examples as JSONL and uploads them with the
// fine-tune purpose, returning the hosted file id.
func (c *TuneClient) UploadTrainingFile(ctx context.Context, name string, examples []staging.Example) (string, error) {
	if len(examples) == 0 {
		return "", fmt.Errorf("no training examples provided")
	}
	var jsonl bytes.Buffer
	if err := staging.WriteTrainingJSONL(&jsonl, examples); err != nil {
		return "", fmt.Errorf("stage training examples: %w", err)
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("purpose", "fine-tune"); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(jsonl.Bytes()); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+filesEndpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &uploaded); err != nil {
		return "", fmt.Errorf("upload training file: %w", err)
	}
	return uploaded.ID, nil
}

// CreateJob starts a fine-tune job from an uploaded training file.
func (c *TuneClient) CreateJob(ctx context.Context, trainingFileID string) (*Job, error) {
	payload, err := json.Marshal(map[string]string{
		"training_file": trainingFileID,
		"model":         c.BaseModel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+fineTuningJobsPrefix, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	job := &Job{}
	if err := c.do(req, job); err != nil {
		return nil, fmt.Errorf("create fine-tune job: %w", err)
	}
	return job, nil
}

// GetJob retrieves the current state of a fine-tune job.
func (c *TuneClient) GetJob(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+fineTuningJobsPrefix+"/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	job := &Job{}
	if err := c.do(req, job); err != nil {
		return nil, fmt.Errorf("get fine-tune job: %w", err)
	}
	return job, nil
}

// WaitForJob polls a job until it reaches a terminal status or the context
// is done. It returns an error when the job fails or is cancelled.
func (c *TuneClient) WaitForJob(ctx context.Context, jobID string) (*Job, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Done() {
			if job.Status != jobStatusSucceeded {
				msg := job.Status
				if job.Error != nil && job.Error.Message != "" {
					msg = fmt.Sprintf("%s: %s", job.Status, job.Error.Message)
				}
				return job, fmt.Errorf("fine-tune job %s %s", jobID, msg)
			}
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Classify labels a text with a tuned model via a single token completion.
func (c *TuneClient) Classify(ctx context.Context, model, text string) (string, error) {
	if model == "" {
		return "", fmt.Errorf("tuned model is required")
	}
	payload, err := json.Marshal(map[string]interface{}{
		"model":       model,
		"prompt":      text + "\n\n###\n\n",
		"max_tokens":  1,
		"temperature": 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+completionsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	var out struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("classify with tuned model: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("tuned model returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Text), nil
}

func (c *TuneClient) do(req *http.Request, target interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("API error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return fmt.Errorf("API error: %s", resp.Status)
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
