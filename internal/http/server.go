// Package http provides the HTTP servers: the field encryption API and the
// Prometheus metrics endpoint.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoHTTP "github.com/allisson/fieldcrypt/internal/crypto/http"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// KeyStatus reports whether the process-wide key has been resolved.
type KeyStatus interface {
	Resolved() bool
}

// RouterOptions configures the optional middleware of the API router.
type RouterOptions struct {
	CORSEnabled      bool
	CORSAllowOrigins string
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// Server is the field encryption API server.
type Server struct {
	server       *http.Server
	logger       *slog.Logger
	keyStatus    KeyStatus
	shuttingDown atomic.Bool
}

// NewServer creates a new API server. keyStatus may be nil, in which case the
// key is always reported as pending.
func NewServer(keyStatus KeyStatus, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger:    logger,
		keyStatus: keyStatus,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin engine and installs it as the server handler.
// ctx bounds background work started by middleware such as the rate limiter.
func (s *Server) SetupRouter(ctx context.Context, cipherHandler *cryptoHTTP.CipherHandler, opts RouterOptions) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if mw := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, s.logger); mw != nil {
		router.Use(mw)
	}

	if opts.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(opts.MetricsProvider.MeterProvider(), opts.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if opts.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, opts.RateLimitRPS, opts.RateLimitBurst, s.logger))
	}
	v1.POST("/encrypt", cipherHandler.EncryptHandler)
	v1.POST("/decrypt", cipherHandler.DecryptHandler)

	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready unless the server is shutting down. The key
// is resolved lazily, so a pending key does not make the server unready.
func (s *Server) readinessHandler(c *gin.Context) {
	key := "pending"
	if s.keyStatus != nil && s.keyStatus.Resolved() {
		key = "resolved"
	}
	components := gin.H{"key": key}

	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
