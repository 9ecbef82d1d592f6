package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

// Client is an HTTP client wrapper with retry, rate limiting and logging
// ⭐ SSOT: every outbound HTTP call from the collaborators goes through this client
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	policy     retry.Policy
	retryOn    bool
	limiter    *rate.Limiter
}

// StatusError is returned when the server keeps answering with a retryable status
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// New creates a new HTTP client
// ⭐ SSOT: http.Client instances are created here only
func New(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // Default timeout
		},
		logger:  log,
		policy:  retry.New(3, time.Second),
		retryOn: true,
	}
}

// NewWithTimeout creates a client with custom timeout
func NewWithTimeout(log *logger.Logger, timeout time.Duration) *Client {
	client := New(log)
	client.httpClient.Timeout = timeout
	return client
}

// WithRetry replaces the retry policy
func (c *Client) WithRetry(policy retry.Policy) *Client {
	c.policy = policy
	c.retryOn = true
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.retryOn = false
	return c
}

// WithRateLimit caps outbound requests per second; rps <= 0 removes the cap
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, target string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	setHeaders(req, headers)

	return c.Do(req)
}

// Post performs a POST request with body
func (c *Client) Post(ctx context.Context, target string, contentType string, body []byte, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	setHeaders(req, headers)
	return c.Do(req)
}

// PostJSON performs a POST request with JSON body
func (c *Client) PostJSON(ctx context.Context, target string, data interface{}, headers map[string]string) (*http.Response, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return c.Post(ctx, target, "application/json", jsonData, headers)
}

// PostForm performs a POST request with form data
func (c *Client) PostForm(ctx context.Context, target string, formData url.Values, headers map[string]string) (*http.Response, error) {
	return c.Post(ctx, target, "application/x-www-form-urlencoded", []byte(formData.Encode()), headers)
}

// DecodeJSON reads and closes resp.Body into out
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// Do executes the request with rate limiting, retry and logging
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	target := req.URL.String()
	method := req.Method

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    target,
	}).Debug("HTTP request started")

	var resp *http.Response
	var err error
	if c.retryOn {
		resp, err = c.doWithRetry(req)
	} else {
		resp, err = c.httpClient.Do(req)
	}

	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      target,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         target,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// doWithRetry re-sends the request through the retry policy
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	policy := c.policy
	policy.OnRetry = func(n int, err error) {
		c.logger.WithFields(map[string]interface{}{
			"attempt": n,
			"delay":   policy.Delay,
			"url":     req.URL.String(),
			"error":   err.Error(),
		}).Warn("Retrying HTTP request")
	}

	err := policy.Do(req.Context(), func(ctx context.Context) error {
		attempt++
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return retry.Permanent(err)
			}
			req.Body = body
		}

		r, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		if IsRetryableError(r.StatusCode) {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return &StatusError{Method: req.Method, URL: req.URL.String(), StatusCode: r.StatusCode}
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// IsRetryableError checks if a status code should be retried
func IsRetryableError(statusCode int) bool {
	// Retry on 5xx server errors and 429 Too Many Requests
	return statusCode >= 500 || statusCode == 429
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
