package leetcode

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

	"golang.org/x/time/rate"

	"github.com/custodia-labs/paygrade/internal/logger"
)

const (
	// DefaultEndpoint is the public GraphQL endpoint.
	DefaultEndpoint = "https://leetcode.com/graphql/"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate caps requests per second across all operations.
	ProactiveRate = 4.0

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxRetryDelay caps the backoff between retries.
	MaxRetryDelay = 30 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Config holds client configuration.
// Zero values fall back to the package defaults.
type Config struct {
	// Endpoint is the GraphQL URL.
	Endpoint string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle rate.
	RequestsPerSecond float64

	// MaxRetries is the retry budget per operation. Negative disables retries.
	MaxRetries int

	// RetryDelay is the first backoff delay; it doubles per attempt.
	RetryDelay time.Duration

	// HTTPClient overrides the HTTP client (tests).
	HTTPClient *http.Client
}

// Client issues GraphQL operations against the discussion API.
// One Client is one network session; Close releases its connections.
type Client struct {
	endpoint   string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a GraphQL client.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = ProactiveRate
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = MaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = RetryDelay
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		http:       httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Endpoint returns the GraphQL URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections held by the session.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do runs one GraphQL operation, retrying transient failures.
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{
		Query:         query,
		Variables:     variables,
		OperationName: operation,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt, lastErr)
			logger.Debug("leetcode: %s attempt %d failed (%v), retrying in %s", operation, attempt, lastErr, delay)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		lastErr = c.once(ctx, operation, body, out)
		if !isRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, operation string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.7")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get(HeaderRetryAfter))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(msg)),
			Operation:  operation,
		}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		gqlErr := &GraphQLError{Operation: operation}
		for _, e := range envelope.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// backoff returns the delay before the given retry attempt (1-based).
// A Retry-After hint from a 429 takes precedence.
func (c *Client) backoff(attempt int, lastErr error) time.Duration {
	var rl *RateLimitError
	if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, MaxRetryDelay)
	}
	delay := c.retryDelay << (attempt - 1)
	if delay <= 0 || delay > MaxRetryDelay {
		delay = MaxRetryDelay
	}
	return delay
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
