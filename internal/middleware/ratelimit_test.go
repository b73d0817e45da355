package middleware

import (
	"testing"
	"time"
)

func newTestLimiter(limit int, span time.Duration, now *time.Time) *InMemoryRateLimiter {
	// Built directly so the background sweep goroutine stays out of tests.
	l := &InMemoryRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(3, time.Minute, &now)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("request over the limit should be denied")
	}
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(1, time.Minute, &now)

	if !l.Allow("k") {
		t.Fatal("first request should pass")
	}
	if l.Allow("k") {
		t.Fatal("second request in window should be denied")
	}
	now = now.Add(time.Minute)
	if !l.Allow("k") {
		t.Fatal("request in the next window should pass")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(1, time.Minute, &now)

	if !l.Allow("a") {
		t.Fatal("key a should pass")
	}
	if !l.Allow("b") {
		t.Fatal("key b should pass despite a being at its limit")
	}
}
