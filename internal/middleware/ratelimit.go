package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimit limits requests per client IP using a fixed window counter in
// Redis. The limiter fails open: if Redis is unreachable the request is let
// through rather than blocking logins on a cache outage.
func RateLimit(redisClient *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()
		ctx := c.Request.Context()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logrus.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				logrus.WithError(err).Warn("Failed to set rate limit window")
			}
		}

		if count > int64(maxRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
