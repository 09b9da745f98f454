package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// RateLimiter provides Redis-backed IP rate limiting using a fixed-window counter.
// Each IP gets a counter key with TTL equal to the window duration, so all
// instances sharing Redis share the budget.
type RateLimiter struct {
	redisClient *redis.Client
	scope       string
	limit       int
	window      time.Duration
	logger      logger.Interface
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each client IP. scope separates the counters of different routes.
func NewRateLimiter(redisClient *redis.Client, scope string, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		scope:       scope,
		limit:       limit,
		window:      window,
		logger:      logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
// A nil limiter lets every request through.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		windowBucket := time.Now().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("helpdesk:ratelimit:%s:%s:%d", rl.scope, clientIP, windowBucket)

		ctx := c.Request.Context()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis unavailable: let the request through
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.window+time.Second)
		}

		if count > int64(rl.limit) {
			rl.logger.Warnw("rate limit exceeded", "scope", rl.scope, "client_ip", clientIP)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many attempts, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
