package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts one hit against a fixed window shared by every
// instance and reports whether it is still under limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, scope, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", scope, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}

	return cnt <= int64(limit), nil
}

// RedisRateLimitMiddleware enforces limit requests per window across
// instances. It fails open when Redis is unavailable.
func RedisRateLimitMiddleware(rdb *redis.Client, scope string, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := CheckRateLimit(c.Request.Context(), rdb, scope, keyFunc(c), limit, window)
		if err != nil {
			_ = c.Error(fmt.Errorf("rate limit store unavailable: %w", err))
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down :("})
			return
		}

		c.Next()
	}
}
