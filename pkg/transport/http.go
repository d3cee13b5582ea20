package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPClient is the production implementation of Client using net/http.
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// HTTPClientConfig holds configuration for the HTTP client.
type HTTPClientConfig struct {
	Timeout   time.Duration // default per-request timeout
	UserAgent string
	Transport http.RoundTripper
}

// NewHTTPClient creates a new net/http backed transport.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "ratebridge/1.0"
	}

	return &HTTPClient{
		httpClient: &http.Client{Transport: cfg.Transport},
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Do performs the request with its own deadline and reads the whole body
// before the deadline is released.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Ensure HTTPClient implements Client interface
var _ Client = (*HTTPClient)(nil)
