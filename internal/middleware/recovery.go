package middleware

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
)

// Recovery turns a panic into a 500 error envelope.
func Recovery(logger *log.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", GetRequestID(c),
		)
		apierrors.InternalError(c, fmt.Errorf("panic: %v", recovered))
	})
}
