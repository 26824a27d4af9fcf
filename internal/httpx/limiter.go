package httpx

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Limiter is a token-bucket rate limiter for vendor API calls.
// It is single-process and in-memory: each CLI invocation gets a full
// bucket, which matches how the vendor rate plans meter bursts.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens added per second
	burst  float64 // bucket capacity
	tokens float64
	last   time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithLimiterClock overrides the time source, for tests.
func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithLimiterSleep overrides the sleep function, for tests.
func WithLimiterSleep(sleep func(ctx context.Context, d time.Duration) error) LimiterOption {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// NewLimiter creates a limiter that refills rate tokens per second up to
// burst capacity. The bucket starts full. A nil limiter is valid and
// never blocks.
func NewLimiter(rate float64, burst int, opts ...LimiterOption) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		rate:   rate,
		burst:  float64(burst),
		tokens: float64(burst),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.last = l.now()
	return l
}

// Acquire blocks until a token is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}
	// Wait for the deficit to refill.
	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	l.mu.Unlock()

	if err := l.sleep(ctx, wait); err != nil {
		return errors.Wrap(err, "waiting for rate limiter")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
	} else {
		// Clock skew or a competing goroutine; go one token into debt
		// rather than looping.
		l.tokens = 0
	}
	return nil
}

// refill adds tokens for the time elapsed since the last update.
// Caller must hold l.mu.
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.last).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.rate
		if l.tokens > l.burst {
			l.tokens = l.burst
		}
		l.last = now
	}
}

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
