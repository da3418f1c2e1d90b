package rest

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
)

// bucket is a token bucket refilled at the limiter's rate.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  float64
	refillRate float64 // tokens per second
	now        func() time.Time
}

// NewRateLimiter creates a rate limiter that allows rps requests per second
// per client, with a burst of rps.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  float64(rps),
		refillRate: float64(rps),
		now:        time.Now,
	}
}

// Allow reports whether a single request from key is permitted.
// It consumes one token if available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.maxTokens, lastRefill: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.refillRate
	if b.tokens > rl.maxTokens {
		b.tokens = rl.maxTokens
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// rateLimit rejects clients that exhausted their bucket. A nil limiter
// lets every request through.
func rateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "rate_limited",
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
