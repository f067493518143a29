package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ResetLimiters()
	t.Cleanup(ResetLimiters)

	router := gin.New()
	router.POST("/support", RateLimitMiddleware("support", 0, 2, ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/support", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusCreated, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234"))

	// separate client, separate bucket
	assert.Equal(t, http.StatusCreated, send("10.0.0.2:1234"))
}

func TestRateLimitScopesDoNotShareBuckets(t *testing.T) {
	ResetLimiters()
	t.Cleanup(ResetLimiters)

	a := getLimiter("a|k", 0, 1)
	b := getLimiter("b|k", 0, 1)
	assert.NotSame(t, a, b)
	assert.Same(t, a, getLimiter("a|k", 0, 1))
}
