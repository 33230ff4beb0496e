package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// maxErrorBody caps how much of an error response is kept in the error message
	maxErrorBody = 1024
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	BaseURL    string
	Token      string
	Platform   string
	HTTPClient HTTPClient

	// Headers are set on every request, after the Authorization header.
	Headers map[string]string
	// AuthScheme prefixes the token in the Authorization header ("Bearer", "token").
	AuthScheme string
}

// NewBaseClient creates a new base client.
func NewBaseClient(platform, baseURL, token string, httpClient HTTPClient) *BaseClient {
	return &BaseClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Platform:   platform,
		HTTPClient: httpClient,
		Headers:    map[string]string{},
		AuthScheme: "Bearer",
	}
}

// GetJSON performs a GET request on path (relative to BaseURL) and decodes
// the JSON response into result. Only a single attempt is made.
func (c *BaseClient) GetJSON(ctx context.Context, path string, result interface{}) error {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", c.AuthScheme+" "+c.Token)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{
			Platform: c.Platform,
			Message:  fmt.Sprintf("authentication failed (401) on GET %s: check your token", path),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}
