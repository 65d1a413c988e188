// internal/api/client.go
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/radar/pkg/streaming"
)

// ClientIDHeader carries the session identifier on every control request.
const ClientIDHeader = "X-Client-ID"

// Client sends operator commands to the radar server's control endpoints.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// New creates a new API client. clientID may be empty.
func New(baseURL, clientID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the radar server answers on its base URL.
func (c *Client) Healthcheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// Pause toggles the server simulation between paused and running.
func (c *Client) Pause(ctx context.Context) error {
	return c.post(ctx, streaming.PathPause, nil)
}

// Add asks the server to spawn a new target.
func (c *Client) Add(ctx context.Context) error {
	return c.post(ctx, streaming.PathAdd, nil)
}

// Remove deletes the target with the given id.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.post(ctx, streaming.PathRemovePrefix+url.PathEscape(id), nil)
}

// Update sets speed and heading of the target with the given id.
func (c *Client) Update(ctx context.Context, id string, speed, heading float64) error {
	q := url.Values{}
	q.Set("speed", strconv.FormatFloat(speed, 'f', -1, 64))
	q.Set("heading", strconv.FormatFloat(heading, 'f', -1, 64))
	return c.post(ctx, streaming.PathUpdatePrefix+url.PathEscape(id), q)
}

func (c *Client) post(ctx context.Context, path string, query url.Values) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.clientID != "" {
		req.Header.Set(ClientIDHeader, c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return nil
}
