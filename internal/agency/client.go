package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Details is the agency identity served by the unauthenticated details
// endpoint.
type Details struct {
	DID    string `json:"DID"`
	VerKey string `json:"verKey"`
}

// Client fetches agency metadata over HTTP. Unlike the readiness
// prober it retries transient failures internally, since its calls
// happen after the agency is already known to be up.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates an agency client for the given endpoint.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil // suppress default logging

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     retryClient.StandardClient(),
		logger:   logger,
	}
}

// Details fetches the agency's DID and verkey.
func (c *Client) Details(ctx context.Context) (*Details, error) {
	url := c.endpoint + "/agency"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("agency error",
			"path", "/agency",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf("agency returned %d: %s", resp.StatusCode, string(body))
	}

	var details Details
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("unmarshal agency details: %w", err)
	}
	return &details, nil
}
