package http

import (
	"io"
	"net/http"
	"time"

	metrics "github.com/aescanero/demo-service/pkg/adapters/metrics/prometheus"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests that hit no registered route
const unmatchedRoute = "<unmatched>"

// metricsMiddleware records request count and latency per route and status.
// Requests for skipPath are not recorded.
func metricsMiddleware(collector *metrics.Collector, skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		collector.IncInFlight()
		defer collector.DecInFlight()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		collector.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// recovery turns panics into a generic 500 response and counts them
func recovery(collector *metrics.Collector, logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		collector.IncException(c.Request.Method, http.StatusInternalServerError)
		logger.Error("panic while handling request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
	})
}

// renderErrors answers with a generic 500 when a handler recorded an error
// without writing a response, e.g. a payload that failed to serialize.
func renderErrors(collector *metrics.Collector, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		collector.IncException(c.Request.Method, http.StatusInternalServerError)
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(c.Errors.Last()))
		c.JSON(http.StatusInternalServerError, internalError)
	}
}

// corsMiddleware allows cross-origin reads from the configured origins
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}

	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
		allowed[o] = true
	}
	if cfg.AllowAllOrigins {
		return cors.New(cfg)
	}
	cfg.AllowOrigins = origins
	handler := cors.New(cfg)

	// Foreign origins get the plain response without CORS headers
	// instead of a 403, so /health and / keep answering 200.
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && !allowed[origin] {
			return
		}
		handler(c)
	}
}

// requestLogger is a middleware for request logging.
// Records are emitted at debug level; handlers log their own info record.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
