package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gigbook/internal/entities"
)

type checkoutSessionResponse struct {
	SessionID string `json:"session_id"`
}

// CheckoutClient opens deposit checkout sessions with the payment
// provider. It never captures payment itself.
type CheckoutClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewCheckoutClient(baseURL string) *CheckoutClient {
	return &CheckoutClient{
		httpClient: newHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *CheckoutClient) CreateSession(ctx context.Context, session entities.CheckoutSessionRequest) (string, error) {
	body, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	var created checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}

	return created.SessionID, nil
}
