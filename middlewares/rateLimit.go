package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	limiters = make(map[string]*rate.Limiter)
	mu       sync.Mutex
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	limiter, exists := limiters[key]
	if !exists {
		limiter = rate.NewLimiter(r, b)
		limiters[key] = limiter
	}
	return limiter
}

// ResetLimiters forgets every bucket
func ResetLimiters() {
	mu.Lock()
	defer mu.Unlock()
	limiters = make(map[string]*rate.Limiter)
}

// RateLimitMiddleware keeps one token bucket per key; scope is prefixed so
// routes with different limits do not share buckets.
func RateLimitMiddleware(scope string, r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := getLimiter(scope+"|"+keyFunc(c), r, b)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down :("})
			return
		}

		c.Next()
	}
}

// ClientIPKey buckets requests by client address
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}
