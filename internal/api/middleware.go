package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

// metricsMiddleware records request counts and latencies by route pattern
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// authMiddleware resolves the session token and stores the caller's
// identity in the request context. Role and ownership checks happen in
// the services.
func authMiddleware(auth service.AuthService, cookieName string, r *responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			r.fail(c, common.ErrUnauthorized)
			return
		}

		identity, err := auth.ResolveToken(c.Request.Context(), token)
		if err != nil {
			r.fail(c, err)
			return
		}

		c.Request = c.Request.WithContext(policy.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// sessionToken reads the session cookie, falling back to a Bearer header
func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
