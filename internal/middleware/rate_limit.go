package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/constants"
	"github.com/pitchcoach-app/auth-service/pkg/logger"
	"github.com/pitchcoach-app/auth-service/pkg/redis"
	"go.uber.org/zap"
)

// RateLimiter is the in-memory fallback limiter, a per-IP sliding list
// of request timestamps.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// Allow records a hit for ip and reports whether it is within budget,
// along with the remaining allowance.
func (rl *RateLimiter) Allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, 0
	}

	rl.tokens[ip] = append(tokens, now)
	return true, rl.maxRequest - len(tokens) - 1
}

// RateLimit limits requests per client IP. When a Redis connection is
// available the window counters live there, so the budget holds across
// replicas; otherwise the in-memory limiter covers a single process.
func RateLimit(rdb *redis.Client, maxRequest int, window time.Duration) gin.HandlerFunc {
	fallback := NewRateLimiter(maxRequest, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		allowed, remaining := true, 0
		if rdb != nil && rdb.IsEnabled() {
			count, err := rdb.IncrWindow(c.Request.Context(), "ratelimit:"+ip, window)
			if err != nil {
				// Redis hiccup: fall through to the in-memory limiter
				allowed, remaining = fallback.Allow(ip, now)
			} else {
				allowed = count <= int64(maxRequest)
				remaining = maxRequest - int(count)
				if remaining < 0 {
					remaining = 0
				}
			}
		} else {
			allowed, remaining = fallback.Allow(ip, now)
		}

		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("window", window),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Header(constants.HeaderRateLimitLimit, fmt.Sprintf("%d", maxRequest))
		c.Header(constants.HeaderRateLimitRemaining, fmt.Sprintf("%d", remaining))
		c.Header(constants.HeaderRateLimitReset, fmt.Sprintf("%d", now.Add(window).Unix()))

		c.Next()
	}
}
