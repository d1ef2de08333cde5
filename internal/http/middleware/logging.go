// README: Request logging and HTTP metrics middleware.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tabihi/internal/obs"
)

const loggerKey = "logger"

// Logging attaches a request-scoped logger and emits one http_request event per request.
func Logging(logger zerolog.Logger, metrics *obs.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.Set(loggerKey, reqLogger)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(status), elapsed.Seconds())

		event := reqLogger.Info()
		if status >= 500 {
			event = reqLogger.Error()
		}
		if uid := CallerUID(c); uid != "" {
			event = event.Str("user_id", string(uid))
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration_ms", elapsed).
			Msg("http_request")
	}
}

// Logger returns the request-scoped logger, or a no-op logger outside Logging.
func Logger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}
