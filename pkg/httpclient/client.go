// Package httpclient is the outbound HTTP client shared by the search and
// submission collaborators.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	vinecontext "github.com/Ramsey-B/vine/pkg/context"
	"github.com/Ramsey-B/vine/pkg/metrics"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

const (
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum response body size (2MB).
	MaxResponseSize = 2 * 1024 * 1024

	// MaxRequestSize is the maximum request body size (1MB).
	MaxRequestSize = 1024 * 1024
)

var (
	ErrResponseTooLarge = errors.New("response body too large")
	ErrRequestTooLarge  = errors.New("request body too large")
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

type Config struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	// Headers are added to every request, e.g. a forwarded session cookie.
	Headers map[string]string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    50,
		IdleConnTimeout: 90 * time.Second,
	}
}

// Client wraps http.Client with logging, tracing and size limits.
type Client struct {
	client  *http.Client
	headers map[string]string
	logger  ectologger.Logger
}

func NewClient(cfg Config, logger ectologger.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    cfg.MaxIdleConns,
				IdleConnTimeout: cfg.IdleConnTimeout,
			},
		},
		headers: cfg.Headers,
		logger:  logger,
	}
}

// Do executes req and returns the response body. Non-2xx responses yield a
// *StatusError.
func (c *Client) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "httpclient.Do")
	defer span.End()

	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if id := vinecontext.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	tracing.Inject(ctx, req.Header)

	start := time.Now()
	resp, err := c.client.Do(req.WithContext(ctx))
	duration := time.Since(start)
	metrics.HTTPClientRequestDuration.WithLabelValues(req.Method).Observe(duration.Seconds())
	if err != nil {
		metrics.HTTPClientRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		tracing.Fail(span, err)
		c.logger.WithContext(ctx).WithError(err).Errorf("HTTP request failed: %s %s", req.Method, req.URL.String())
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.HTTPClientRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrResponseTooLarge, resp.ContentLength, MaxResponseSize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}

	c.logger.WithContext(ctx).Debugf("HTTP %s %s -> %d (%s)", req.Method, req.URL.String(), resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{StatusCode: resp.StatusCode, Body: body}
		tracing.Fail(span, err)
		return nil, err
	}

	return body, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// PostJSON marshals payload and POSTs it to url.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	if len(data) > MaxRequestSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrRequestTooLarge, len(data), MaxRequestSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}
