package transcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vidorahq/vidora/backend/internal/config"
)

// Client implements Provider over the provider's HTTP API
type Client struct {
	baseURL    string
	tokenID    string
	tokenSecret string
	httpClient *http.Client
	logger     Logger
}

// NewClient creates a new transcode provider client
func NewClient(cfg *config.TranscodeConfig, logger Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		tokenID:     cfg.TokenID,
		tokenSecret: cfg.TokenSecret,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// CreateUpload registers a direct-upload slot with the provider
func (c *Client) CreateUpload(ctx context.Context, passthrough string) (*Upload, error) {
	body := map[string]interface{}{
		"passthrough":     passthrough,
		"playback_policy": []string{"public"},
	}
	var upload Upload
	if err := c.do(ctx, http.MethodPost, "/uploads", body, &upload); err != nil {
		return nil, err
	}

	c.logger.LogInfo("Registered direct upload", map[string]interface{}{
		"uploadId": upload.ID,
	})
	return &upload, nil
}

// GetUpload fetches the state of a direct upload
func (c *Client) GetUpload(ctx context.Context, uploadID string) (*Upload, error) {
	var upload Upload
	if err := c.do(ctx, http.MethodGet, "/uploads/"+uploadID, nil, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// GetAsset fetches the processing status of an asset
func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var asset Asset
	if err := c.do(ctx, http.MethodGet, "/assets/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ThumbnailURL returns the provider-hosted thumbnail for a playback id
func (c *Client) ThumbnailURL(playbackID string) string {
	return fmt.Sprintf("%s/image/%s/thumbnail.jpg", c.baseURL, playbackID)
}

// PreviewURL returns the provider-hosted animated preview
func (c *Client) PreviewURL(playbackID string) string {
	return fmt.Sprintf("%s/image/%s/animated.gif", c.baseURL, playbackID)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.tokenID, c.tokenSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transcode provider request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("transcode provider: %s not found", path)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("transcode provider returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode provider response: %v", err)
		}
	}
	return nil
}
