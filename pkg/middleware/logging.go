package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs one line per request with its trace id, status and latency.
// Run it after TraceIDMiddleware.
func LoggingMiddleware(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []interface{}{
			"trace_id", c.GetString("trace_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"response_size", c.Writer.Size(),
		}
		if uid := c.GetString(ContextUserID); uid != "" {
			fields = append(fields, "user_id", uid)
		}

		switch {
		case len(c.Errors) > 0:
			log.Errorw("request", append(fields, "errors", c.Errors.String())...)
		case c.Writer.Status() >= 500:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
