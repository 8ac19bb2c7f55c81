// Package httpapi provides a driven.PlaygroundAPI adapter for the
// playground backend's JSON-over-HTTP interface.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PlaygroundAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultAPIBaseURL
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration

	// RateLimit caps requests per second. Zero or negative disables it.
	RateLimit float64

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the playground backend.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("httpapi: invalid base url %q", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: newLimiter(cfg.RateLimit),
	}, nil
}

// newLimiter allows a burst of one second's worth of requests.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, math.Ceil(perSecond))))
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs a request and returns the response body of a 2xx reply.
// Any other status becomes a *domain.RemoteError.
func (c *Client) send(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	logger.Debug("api: %s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    detailMessage(data),
			Op:         op,
		}
	}
	return data, nil
}

// call sends in as JSON (when not nil) and decodes the reply into out (when not nil).
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	data, err := c.send(ctx, op, method, path, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(op, data, out)
}

func decode(op string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// detailMessage extracts the server message from an error body of the form
// {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func escape(id string) string {
	return url.PathEscape(id)
}
