package http

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	"github.com/allisson/fieldcrypt/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
}

type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*ipLimiterEntry),
	}
}

// get returns the limiter for ip, creating it on first use.
func (l *ipRateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = now
	return entry.limiter
}

// evictIdle drops limiters not used since before cutoff.
func (l *ipRateLimiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, entry := range l.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// run evicts idle limiters periodically until ctx is done.
func (l *ipRateLimiter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictIdle(now.Add(-limiterIdleTTL))
		}
	}
}

// RateLimitMiddleware enforces a per-IP token bucket on the cipher endpoints.
// Rejected requests get 429 with a Retry-After header. The cleanup goroutine
// stops when ctx is cancelled.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiter := newIPRateLimiter(rps, burst)
	go limiter.run(ctx, limiterCleanupInterval)

	return rateLimitHandler(limiter, logger)
}

func rateLimitHandler(limiter *ipRateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		bucket := limiter.get(clientIP, time.Now())

		if bucket.Allow() {
			c.Next()
			return
		}

		reservation := bucket.Reserve()
		retryAfter := int(reservation.Delay().Seconds()) + 1
		reservation.Cancel()

		logger.Debug("rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, nil)
		c.Abort()
	}
}
