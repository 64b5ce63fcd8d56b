package restdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"deskhub/internal/shared/logger"
)

// client speaks one REST desk's POST-based JSON API. Tokens are end-user
// scoped, so every operation authenticates from scratch and connections are
// not pooled across calls.
type client struct {
	baseURL string
	timeout time.Duration
	logger  logger.Interface
}

func newClient(baseURL string, timeout time.Duration, log logger.Interface) *client {
	return &client{
		baseURL: baseURL,
		timeout: timeout,
		logger:  log,
	}
}

// auth exchanges the user's credentials for a request token.
func (c *client) auth(ctx context.Context, login, secret string) (string, error) {
	var resp authResponse
	if err := c.post(ctx, "/api/auth", "", authRequest{Login: login, Secret: secret}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("auth returned no token")
	}
	return resp.Token, nil
}

// post issues one JSON POST and decodes the response into out.
func (c *client) post(ctx context.Context, path, token string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	c.logger.Debugw("rest call completed", "path", path, "status", resp.StatusCode)
	return nil
}
