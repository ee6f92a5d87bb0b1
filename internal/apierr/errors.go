// Package apierr provides shared error sentinels, classification, and retry
// infrastructure for the OpenAI chat completion API. All provider error types
// are classified into these sentinels at the adapter boundary.
//
// Classification wraps with fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrModelNotFound indicates the requested model does not exist or is
	// not available to this API key.
	ErrModelNotFound = errors.New("model not found")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")
)

// RateLimitError is a rate limit failure carrying the wait the server asked
// for, when its message contained one. It matches ErrRateLimit under
// errors.Is, so callers that don't care about the hint treat it like any
// other rate limit.
type RateLimitError struct {
	// RetryAfter is the server-suggested wait, zero when no hint was given.
	RetryAfter time.Duration

	msg string
}

func (e *RateLimitError) Error() string {
	if e.msg == "" {
		return ErrRateLimit.Error()
	}
	return e.msg + ": " + ErrRateLimit.Error()
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimit }

// retryAfterPattern matches wait hints the API embeds in rate limit
// messages, such as "Please try again in 1.898s" or "try again in 250ms".
var retryAfterPattern = regexp.MustCompile(`(?i)(?:try again in|retry after) (\d+(?:\.\d+)?)\s*(ms|seconds?|s)\b`)

// parseRetryAfter extracts a wait hint from a rate limit message.
// Returns zero when the message carries no recognizable hint.
func parseRetryAfter(msg string) time.Duration {
	m := retryAfterPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	if strings.EqualFold(m[2], "ms") {
		return time.Duration(v * float64(time.Millisecond))
	}
	return time.Duration(v * float64(time.Second))
}

// Classify maps an error returned by the OpenAI client to one of the
// package sentinels. Server errors (5xx) and unrecognized failures pass
// through unchanged and are treated as transient by IsRetryable.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request deadline exceeded: %w", ErrTimeout)
	}

	return err
}

// classifyAPIError maps HTTP status codes to sentinels. A 429 mentioning
// quota or billing is a hard quota failure, not a rate limit.
func classifyAPIError(apiErr *openai.APIError) error {
	msg := strings.ToLower(apiErr.Message)

	switch {
	case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
		}
		return &RateLimitError{
			RetryAfter: parseRetryAfter(apiErr.Message),
			msg:        apiErr.Message,
		}

	case apiErr.HTTPStatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)

	case apiErr.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)

	case apiErr.HTTPStatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", apiErr.Message, ErrModelNotFound)

	case apiErr.HTTPStatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)

	case apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500:
		return fmt.Errorf("%s (HTTP %d): %w", apiErr.Message, apiErr.HTTPStatusCode, ErrBadRequest)
	}

	return fmt.Errorf("API error (HTTP %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
}

// IsRetryable reports whether another attempt could plausibly succeed.
// Rate limits, timeouts, and unclassified failures (5xx, transport errors)
// are retryable. Fatal sentinels and context cancellation are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if IsFatal(err) {
		return false
	}
	return true
}

// IsFatal reports whether err is a permanent failure no retry can fix:
// bad credentials, an unknown model, exhausted quota, or a request the
// API rejected as malformed.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrBadRequest)
}
