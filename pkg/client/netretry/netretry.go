// Package netretry classifies transient network failures and retries operations
// against registries and the Docker daemon when they occur.
package netretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"syscall"
	"time"
)

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// so that port numbers like ":5000" do not match.
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

var transientMessages = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
}

// IsRetryable reports whether err looks like a transient network failure:
// a 5xx answer, a refused or reset connection, a timeout, or a truncated body.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errMsg := err.Error()

	for _, pattern := range transientMessages {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// ExponentialDelay returns min(baseWait * 2^(attempt-1), maxWait).
func ExponentialDelay(
	attempt int,
	baseWait, maxWait time.Duration,
) time.Duration {
	return min(baseWait*time.Duration(1<<(attempt-1)), maxWait)
}

// Policy bounds Do.
type Policy struct {
	MaxAttempts int
	BaseWait    time.Duration
	MaxWait     time.Duration
}

// DefaultPolicy retries three times over roughly six seconds.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseWait: 2 * time.Second, MaxWait: 15 * time.Second}

// Do runs operation until it succeeds, fails with a non-retryable error, or the
// attempts of policy are used up. The last error is returned.
func Do(ctx context.Context, policy Policy, operation func(context.Context) error) error {
	attempts := max(policy.MaxAttempts, 1)

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil || !IsRetryable(lastErr) || attempt == attempts {
			break
		}

		timer := time.NewTimer(ExponentialDelay(attempt, policy.BaseWait, policy.MaxWait))

		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return lastErr
}
