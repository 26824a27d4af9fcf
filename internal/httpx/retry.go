package httpx

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryPolicy controls how throttled and failed requests are retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Base is the backoff before the first retry; it doubles each attempt.
	Base time.Duration

	// Cap bounds the backoff regardless of attempt count.
	Cap time.Duration

	// RetryNonIdempotent retries POST/PUT on 5xx as well. 429 responses
	// are always retried since the request was never processed.
	RetryNonIdempotent bool
}

// DefaultRetryPolicy mirrors the backoff the vendor docs prescribe:
// wait min(120s, base*2^attempt) with jitter, retrying 429 and 5xx.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		Base:        time.Second,
		Cap:         120 * time.Second,
	}
}

// NoRetry performs a single attempt.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// Backoff returns the wait before retry number attempt (0-based),
// with up to 25% random jitter added.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	base := p.Base
	if base <= 0 {
		base = time.Second
	}
	d := base << uint(attempt)
	if p.Cap > 0 && d > p.Cap {
		d = p.Cap
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

// ShouldRetry reports whether a request with the given method and
// response status should be retried.
func (p RetryPolicy) ShouldRetry(method string, statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode < 500 {
		return false
	}
	if method == http.MethodGet || method == http.MethodHead {
		return true
	}
	return p.RetryNonIdempotent
}

// RetryAfter parses a Retry-After header into a wait duration.
// Returns zero when the header is absent or unparseable.
func RetryAfter(h http.Header) time.Duration {
	val := h.Get("Retry-After")
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if wait := time.Until(t); wait > 0 {
			return wait
		}
	}
	return 0
}
