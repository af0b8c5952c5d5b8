package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

// RateLimiter is an in-memory per-key token bucket refilled continuously at perMinute tokens.
type RateLimiter struct {
	capacity float64
	perSec   float64
	mu       sync.Mutex
	buckets  map[string]*bucket
	swept    time.Time
	now      func() time.Time
}

// sweepInterval bounds how often idle buckets are scanned for eviction.
const sweepInterval = time.Minute

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a limiter allowing bursts of perMinute requests.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		capacity: float64(perMinute),
		perSec:   float64(perMinute) / 60,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Middleware enforces the limit per client IP.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}
		if !l.Allow(key) {
			c.Header("Retry-After", "60")
			response.Abort(c, appErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// Allow consumes one token for key when available.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || l.capacity <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) >= sweepInterval {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}
	b.tokens += now.Sub(b.last).Seconds() * l.perSec
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle for a full interval that have refilled to capacity.
// A dropped bucket is indistinguishable from a new one, so no client gains tokens.
func (l *RateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		idle := now.Sub(b.last)
		if idle >= sweepInterval && b.tokens+idle.Seconds()*l.perSec >= l.capacity {
			delete(l.buckets, key)
		}
	}
	l.swept = now
}

// size reports the number of tracked keys.
func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
