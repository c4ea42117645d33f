package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/hashicorp/go-retryablehttp"
)

const clientTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	retryable := retryablehttp.NewClient()
	retryable.RetryMax = 3
	retryable.Logger = nil
	retryable.HTTPClient.Timeout = clientTimeout
	return retryable.StandardClient()
}

// BlobClient talks to the object storage gateway.
type BlobClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewBlobClient(baseURL string) *BlobClient {
	return &BlobClient{
		httpClient: newHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Upload writes an object. A 409 means the object is already there,
// which is success for our deterministic paths.
func (c *BlobClient) Upload(ctx context.Context, path string, content []byte, contentType string) error {
	endpoint := c.baseURL + "/objects/" + url.PathEscape(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		log.FromContext(ctx).Infof("object %s already exists", path)
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	return nil
}

type signURLRequest struct {
	Path             string `json:"path"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

type signURLResponse struct {
	URL string `json:"url"`
}

// SignedURL issues a time-limited download link for an object.
func (c *BlobClient) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	body, err := json.Marshal(signURLRequest{
		Path:             path,
		ExpiresInSeconds: int64(expiry.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sign", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	var signed signURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("failed to decode sign response: %w", err)
	}

	return signed.URL, nil
}
