// README: Request logging middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"kiloshare/internal/logger"
)

func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if id := GetRequestID(c); id != "" {
			kv = append(kv, "request_id", id)
		}
		if len(c.Errors) > 0 {
			log.Error("request failed", append(kv, "error", c.Errors.String())...)
			return
		}
		log.Info("request", kv...)
	}
}
