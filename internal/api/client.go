// Package api provides the HTTP client for the builder backend: the
// polish endpoints and the preview swap endpoint. It centralizes
// request construction, timeouts, and error shaping for the page
// engines.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/builder"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeBuilder/1.0)"

// Error represents a failed backend call.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the builder backend.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
	}
}

// Polish sends the resume payload to /polish.
func (c *Client) Polish(ctx context.Context, payload builder.ResumePayload) (*builder.PolishResponse, error) {
	var resp builder.PolishResponse
	if err := c.postJSON(ctx, "/polish", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PolishCover sends the cover payload to /polish_cover.
func (c *Client) PolishCover(ctx context.Context, payload builder.CoverPayload) (*builder.CoverPolishResponse, error) {
	var resp builder.CoverPolishResponse
	if err := c.postJSON(ctx, "/polish_cover", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Swap fetches a re-rendered preview fragment from /swap using the
// given form values as query parameters. The returned markup is
// inserted into the preview container by the caller.
func (c *Client) Swap(ctx context.Context, query url.Values) (string, error) {
	endpoint := "/swap"
	reqURL := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Endpoint: endpoint, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return string(body), nil
}

// postJSON posts a JSON body and decodes a JSON response into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to encode payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Endpoint: endpoint, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return nil
}
