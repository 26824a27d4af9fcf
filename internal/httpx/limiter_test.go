package httpx

import (
	"context"
	"testing"
	"time"
)

// fakeTime is a hand-cranked clock for limiter tests.
type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestLimiter_BurstAcquiresImmediately(t *testing.T) {
	clock := &fakeTime{now: time.Unix(1000, 0)}
	var sleeps []time.Duration
	l := NewLimiter(1, 3,
		WithLimiterClock(clock.Now),
		WithLimiterSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			clock.Advance(d)
			return nil
		}))

	for i := 0; i < 3; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire(%d) error = %v", i, err)
		}
	}
	if len(sleeps) != 0 {
		t.Errorf("sleeps = %v, want none within burst", sleeps)
	}
}

func TestLimiter_BlocksPastBurst(t *testing.T) {
	clock := &fakeTime{now: time.Unix(1000, 0)}
	var sleeps []time.Duration
	l := NewLimiter(2, 1, // 2 tokens per second, burst 1
		WithLimiterClock(clock.Now),
		WithLimiterSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			clock.Advance(d)
			return nil
		}))

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(sleeps) != 1 {
		t.Fatalf("sleeps = %v, want one wait past burst", sleeps)
	}
	// Refill rate is 2/s, so a full token takes 500ms.
	if sleeps[0] != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", sleeps[0])
	}
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	clock := &fakeTime{now: time.Unix(1000, 0)}
	var sleeps []time.Duration
	l := NewLimiter(1, 1,
		WithLimiterClock(clock.Now),
		WithLimiterSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			clock.Advance(d)
			return nil
		}))

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A second passes; the bucket refills and no wait is needed.
	clock.Advance(time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(sleeps) != 0 {
		t.Errorf("sleeps = %v, want none after refill", sleeps)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1) // effectively never refills
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Error("Acquire() with cancelled context should error")
	}
}

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter
	for i := 0; i < 100; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("nil limiter Acquire() error = %v", err)
		}
	}
}
