// Package numeric talks to the external statistics service that runs the
// Shapiro-Wilk and Levene tests.
package numeric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"statadvisor/domain/assumption"
	"statadvisor/internal/errors"
	"statadvisor/ports"
)

const serviceName = "numeric backend"

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// Config holds client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.NumericBackend over HTTP. Both tests share one
// endpoint; the request shape selects which section the service fills in.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.NumericBackend = (*Client)(nil)

// NewClient creates a client for the service at config.BaseURL
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.ConfigInvalid("missing numeric backend URL")
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// TestNormality posts the values and returns the normality section
func (c *Client) TestNormality(ctx context.Context, req assumption.Request) (*assumption.NormalityPayload, error) {
	if !req.HasValues() {
		return nil, errors.InvalidInput("normality test needs at least 3 values")
	}
	req.Groups = nil
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Normality == nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("response missing normality section"))
	}
	return resp.Normality, nil
}

// TestHomogeneity posts the groups and returns the homogeneity section
func (c *Client) TestHomogeneity(ctx context.Context, req assumption.Request) (*assumption.HomogeneityPayload, error) {
	if !req.HasGroups() {
		return nil, errors.InvalidInput("homogeneity test needs at least 2 groups")
	}
	req.Values = nil
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Homogeneity == nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("response missing homogeneity section"))
	}
	return resp.Homogeneity, nil
}

func (c *Client) post(ctx context.Context, req assumption.Request) (*assumption.Response, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assumptions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(respRaw))))
	}

	var decoded assumption.Response
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("unmarshal response: %w", err))
	}
	return &decoded, nil
}
