package leetcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LeetCode-specific errors.
var (
	// ErrTopicNotFound indicates the detail operation returned no article.
	ErrTopicNotFound = errors.New("leetcode: topic not found")

	// ErrEmptyResponse indicates a response without a data object.
	ErrEmptyResponse = errors.New("leetcode: empty response")
)

// RateLimitError represents an HTTP 429 response.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("leetcode: rate limited, retry after %s", e.RetryAfter)
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Message    string
	Operation  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leetcode: API error %d: %s (operation: %s)", e.StatusCode, e.Message, e.Operation)
}

// GraphQLError represents errors reported in a GraphQL response body.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("leetcode: %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// IsNotFound checks if the error indicates a topic was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrTopicNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// isRetryable reports whether a request may succeed on a later attempt.
// Rate limits, server errors and transport failures are retried; client
// errors and GraphQL errors are not.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsRateLimited(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return false
	}
	return !errors.Is(err, ErrEmptyResponse)
}
