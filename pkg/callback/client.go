package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrEmptyURL = errors.New("callback url is empty")

// Client posts workflow triggers to caller-supplied callback URLs
type Client struct {
	httpClient *http.Client
}

// ClientConfig holds the configuration for the callback client
type ClientConfig struct {
	Timeout time.Duration
}

// Response is what the callback endpoint answered
type Response struct {
	StatusCode int
}

// NewClient creates a new callback client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Post sends payload as JSON to url. An error means no HTTP response was
// received; any received status, including 4xx/5xx, is returned as a Response.
func (c *Client) Post(ctx context.Context, url string, payload interface{}) (*Response, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode callback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return &Response{StatusCode: resp.StatusCode}, nil
}
