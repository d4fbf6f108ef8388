package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newRateLimitedRouter(limiter *ipRateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rateLimitHandler(limiter, discardLogger()))
	router.POST("/v1/encrypt", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/encrypt", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitHandler(t *testing.T) {
	t.Run("AllowsBurstThenRejects", func(t *testing.T) {
		router := newRateLimitedRouter(newIPRateLimiter(1, 2))

		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1234").Code)

		w := doRequest(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("SeparateBucketsPerIP", func(t *testing.T) {
		router := newRateLimitedRouter(newIPRateLimiter(1, 1))

		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1234").Code)
	})
}

func TestIPRateLimiter_EvictIdle(t *testing.T) {
	limiter := newIPRateLimiter(1, 1)
	now := time.Now()

	limiter.get("10.0.0.1", now.Add(-2*time.Hour))
	limiter.get("10.0.0.2", now)

	limiter.evictIdle(now.Add(-time.Hour))

	assert.NotContains(t, limiter.limiters, "10.0.0.1")
	assert.Contains(t, limiter.limiters, "10.0.0.2")
}

func TestRateLimitMiddleware_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	mw := RateLimitMiddleware(ctx, 10, 10, discardLogger())
	assert.NotNil(t, mw)

	cancel()
	// VerifyNone retries until the cleanup goroutine has exited.
}
