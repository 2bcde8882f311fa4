package middleware

import (
	"fmt"
	"time"

	"contenthub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig represents rate limit configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Prefix   string
}

// RateLimiter limits requests per client using Redis counters. Keys are the
// authenticated username when present, the client IP otherwise.
type RateLimiter struct {
	redis  RedisClient
	config *RateLimitConfig
	logger *pkg.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis RedisClient, config *RateLimitConfig, logger *pkg.Logger) *RateLimiter {
	if config.Prefix == "" {
		config.Prefix = "rate_limit"
	}
	return &RateLimiter{
		redis:  redis,
		config: config,
		logger: logger,
	}
}

// Limit returns the rate limiting middleware.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := CurrentUsername(c)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := fmt.Sprintf("%s:%s", rl.config.Prefix, subject)

		count, err := rl.redis.Incr(c.Request.Context(), key, rl.config.Window)
		if err != nil {
			// Redis being down should not take the API with it.
			rl.logger.Error("Rate limiter unavailable", map[string]interface{}{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > int64(rl.config.Requests) {
			rl.logger.Warn("Rate limit exceeded", map[string]interface{}{
				"subject": subject,
				"count":   count,
				"limit":   rl.config.Requests,
			})
			pkg.RateLimitResponse(c, "Rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
