// Package workflow triggers long-running background jobs (AI title,
// description and thumbnail generation) on an external workflow
// service. Triggers are fire-and-forget: the client retries the POST a
// fixed number of times and returns a run id without awaiting job
// completion.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/config"
)

const triggerRetries = 3

// Trigger identifies a workflow run
type Trigger struct {
	RunID string `json:"workflowRunId"`
}

// Client posts trigger requests to the workflow service
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new workflow client
func NewClient(cfg *config.WorkflowConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TriggerRun enqueues a background job on the given workflow path and
// returns the run id. The job's completion is the workflow service's
// problem; the caller only hands off.
func (c *Client) TriggerRun(ctx context.Context, path string, input map[string]string) (*Trigger, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trigger payload: %v", err)
	}

	var lastErr error
	for attempt := 0; attempt < triggerRetries; attempt++ {
		trigger, err := c.post(ctx, path, payload)
		if err == nil {
			return trigger, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("workflow trigger failed after %d attempts: %v", triggerRetries, lastErr)
}

func (c *Client) post(ctx context.Context, path string, payload []byte) (*Trigger, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build trigger request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("workflow service returned status %d", resp.StatusCode)
	}

	var trigger Trigger
	if err := json.NewDecoder(resp.Body).Decode(&trigger); err != nil {
		return nil, fmt.Errorf("failed to decode trigger response: %v", err)
	}
	if trigger.RunID == "" {
		trigger.RunID = uuid.New().String()
	}
	return &trigger, nil
}
