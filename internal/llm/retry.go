package llm

import (
	"context"
	"strings"
	"time"
)

// RetryPolicy bounds retries on throttled or transient provider failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy retries twice after the initial attempt with linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// GenerateJSONWithRetry calls client.GenerateJSON, retrying retryable failures
// under the policy. Non-retryable errors and context cancellation surface
// immediately; exhausted retries surface the last error so the caller records
// it as a per-document failure rather than dropping the document.
func GenerateJSONWithRetry(ctx context.Context, client Client, prompt string, tier ModelTier, policy RetryPolicy) (string, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		out, err := client.GenerateJSON(ctx, prompt, tier)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(policy.BaseDelay * time.Duration(attempt)):
		}
	}
	return "", lastErr
}

// IsRetryable reports whether a provider error is worth retrying: rate limits,
// timeouts, and transient server-side failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"resource exhausted",
		"429",
		"quota",
		"deadline exceeded",
		"timeout",
		"unavailable",
		"503",
		"500",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
