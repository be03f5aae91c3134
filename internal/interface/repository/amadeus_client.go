package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// AmadeusClient performs authenticated GET requests against the travel API.
// The HTTP client is expected to attach the bearer token (see oauth.AmadeusOAuth).
type AmadeusClient struct {
	client  *http.Client
	baseURL string
}

// NewAmadeusClient creates a travel API client rooted at baseURL
func NewAmadeusClient(client *http.Client, baseURL string) *AmadeusClient {
	return &AmadeusClient{
		client:  client,
		baseURL: baseURL,
	}
}

func (c *AmadeusClient) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	body, err := checkResponse(op, resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
