package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dentalreserve/clinic-api/pkg/logger"
)

// Logger emits one structured line per handled request
func Logger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		l.WithFields(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.GetString(ContextRequestID),
			"client_ip":  c.ClientIP(),
		}).Info("request handled")
	}
}
