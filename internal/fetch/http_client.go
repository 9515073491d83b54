package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrBodyTooLarge is returned when a response body exceeds the configured cap.
var ErrBodyTooLarge = errors.New("body too large")

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// HTTPClient fetches pages over plain HTTP GET.
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *HostLimiter
}

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) { c.userAgent = ua }
}

// WithMaxBytes sets the largest accepted body; longer bodies fail with
// ErrBodyTooLarge. Values <= 0 keep the default.
func WithMaxBytes(n int64) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithLimiter throttles requests per host.
func WithLimiter(l *HostLimiter) Option {
	return func(c *HTTPClient) { c.limiter = l }
}

// NewHTTPClient creates an HTTPClient whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Fetch implements Client.Fetch with a GET request to url.
func (c *HTTPClient) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.httpClient.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx, url); err != nil {
		return "", fmt.Errorf("fetch %s: rate limit wait: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: failed to create request: %w", url, err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("fetch %s: request timeout or canceled: %w", url, err)
		}
		return "", fmt.Errorf("fetch %s: request failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	// One byte past the cap tells a body of exactly maxBytes from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("fetch %s: failed to read body: %w", url, err)
	}
	if int64(len(body)) > c.maxBytes {
		return "", fmt.Errorf("fetch %s: %w: limit %d bytes", url, ErrBodyTooLarge, c.maxBytes)
	}

	return string(body), nil
}

// compile-time check: HTTPClient satisfies the Client interface.
var _ Client = (*HTTPClient)(nil)
