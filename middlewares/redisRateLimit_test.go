package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestCheckRateLimit(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "support", "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d should pass", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "support", "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// the window is set once, on the first hit
	assert.Equal(t, time.Minute, mr.TTL("rl:support:10.0.0.1"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "support", "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "a new window starts after expiry")
}

func TestCheckRateLimitNilClient(t *testing.T) {
	_, err := CheckRateLimit(context.Background(), nil, "support", "x", 1, time.Minute)
	assert.Error(t, err)
}

func TestRedisRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, rdb := setupMiniredis(t)

	router := gin.New()
	router.POST("/support", RedisRateLimitMiddleware(rdb, "support", 1, time.Minute, ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/support", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	// fail open once the store starts failing
	mr.SetError("ERR server unavailable")
	assert.Equal(t, http.StatusOK, send())
}
