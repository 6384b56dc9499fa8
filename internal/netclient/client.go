// Package netclient fetches and interprets responses from remote HTTP
// endpoints: status pages, JSON search APIs, the GitHub user API, the
// Star Wars films API and todo lists.
package netclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	xlog "almostcircle/internal/log"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultDialTimeout = 5 * time.Second
	maxBodyBytes       = 10 << 20
)

var (
	// ErrNoResult is returned when a JSON API answers with an empty object
	ErrNoResult = errors.New("no result")
	// ErrInvalidJSON is returned when a response body is not valid JSON
	ErrInvalidJSON = errors.New("not a valid JSON")
)

// HTTPError reports a response with a status code of 400 or above
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Error code: %d", e.Code)
}

// Response is a fully read HTTP response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client performs HTTP requests with a shared timeout and user agent
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a client. A zero timeout selects the default.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	dialTimeout := min(timeout, defaultDialTimeout)

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          16,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   dialTimeout,
				ExpectContinueTimeout: time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch performs a GET and returns the status, headers and body
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// RequestID returns the X-Request-Id header of the response, empty when absent
func (c *Client) RequestID(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return resp.Header.Get("X-Request-Id"), nil
}

// PostEmail posts email as a form field and returns the response body
func (c *Client) PostEmail(ctx context.Context, rawURL, email string) (string, error) {
	resp, err := c.postForm(ctx, rawURL, url.Values{"email": {email}})
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// Body returns the response body. A status of 400 or above is an *HTTPError.
func (c *Client) Body(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if resp.Status >= http.StatusBadRequest {
		return "", &HTTPError{Code: resp.Status, Body: string(resp.Body)}
	}
	return string(resp.Body), nil
}

// StatusCode returns the response status code
func (c *Client) StatusCode(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger := xlog.FromContext(req.Context(), "netclient")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
