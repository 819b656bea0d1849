package middleware

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one log line per request. Server errors are logged at
// error level together with the errors attached to the context.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
			"request_id", GetRequestID(c),
		}
		if userID, ok := GetUserID(c); ok {
			keyvals = append(keyvals, "user_id", userID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			if len(c.Errors) > 0 {
				keyvals = append(keyvals, "err", c.Errors.String())
			}
			logger.Error("request failed", keyvals...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", keyvals...)
		default:
			logger.Info("request handled", keyvals...)
		}
	}
}
