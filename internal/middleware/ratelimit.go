package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	start time.Time
	count int
}

// InMemoryRateLimiter caps requests per key using fixed windows. Counters for
// a key reset when its window elapses; stale keys are dropped by a background
// sweep.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration

	now func() time.Time
}

func NewInMemoryRateLimiter(limit int, span time.Duration) *InMemoryRateLimiter {
	l := &InMemoryRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
		now:     time.Now,
	}
	go l.sweep()
	return l
}

func (l *InMemoryRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.span {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

func (l *InMemoryRateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		now := l.now()
		for k, w := range l.windows {
			if now.Sub(w.start) >= l.span {
				delete(l.windows, k)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit limits requests by client IP.
func RateLimit(limiter *InMemoryRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
