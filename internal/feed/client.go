package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxFeedBytes caps the size of a feed document.
const maxFeedBytes = 64 << 20

// Document is a fetched feed body, already transcoded to UTF-8.
type Document struct {
	URL         string
	ContentType string
	Body        string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher retrieves feed documents and enclosure bodies.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Client fetches feeds over HTTP.
type Client struct {
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// WithTimeout bounds a whole Fetch, body included. Enclosure downloads
// through Get are only bounded by their context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New creates a feed client.
func New(opts ...Option) *Client {
	client := &Client{timeout: 30 * time.Second, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Get issues a GET request and returns the response when the status is 2xx.
// The caller must close the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("url must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// Fetch downloads a feed and decodes it to UTF-8.
func (c *Client) Fetch(ctx context.Context, url string) (*Document, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(raw) > maxFeedBytes {
		return nil, fmt.Errorf("read %s: feed exceeds %d bytes", url, maxFeedBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := decodeBody(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &Document{URL: url, ContentType: contentType, Body: body}, nil
}
