package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// staleBucketAge is how long an idle bucket survives before the sweep
// drops it.
const staleBucketAge = 10 * time.Minute

type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	max      float64
	rate     float64 // tokens per second
	lastFill time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	return &tokenBucket{
		tokens:   float64(burst),
		max:      float64(burst),
		rate:     rate,
		lastFill: time.Now(),
	}
}

// take refills from elapsed time, then spends one token. The second
// return value is the whole seconds until a token frees up, for the
// Retry-After header on rejection.
func (b *tokenBucket) take() (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastFill).Seconds() * b.rate
	if b.tokens > b.max {
		b.tokens = b.max
	}
	b.lastFill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/b.rate) + 1
}

// limiter maps rate limit keys to their buckets and sweeps idle ones.
type limiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSeen  map[string]time.Time
	cfg       RateLimitConfig
	nextSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		buckets:   make(map[string]*tokenBucket),
		lastSeen:  make(map[string]time.Time),
		cfg:       cfg,
		nextSweep: time.Now().Add(staleBucketAge),
	}
}

func (l *limiter) bucketFor(key string) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.nextSweep) {
		for k, seen := range l.lastSeen {
			if now.Sub(seen) > staleBucketAge {
				delete(l.buckets, k)
				delete(l.lastSeen, k)
			}
		}
		l.nextSweep = now.Add(staleBucketAge)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = newTokenBucket(l.cfg.RequestsPerSecond, l.cfg.BurstSize)
		l.buckets[key] = b
	}
	l.lastSeen[key] = now
	return b
}

// RateLimit returns a token bucket rate limiting middleware keyed by the
// authenticated provider, falling back to client IP for anonymous
// requests.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	lim := newLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if providerID, ok := c.Get("provider_id").(string); ok && providerID != "" {
				key = providerID
			}

			ok, retryAfter := lim.bucketFor(key).take()
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
