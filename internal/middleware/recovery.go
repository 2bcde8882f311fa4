package middleware

import (
	"runtime/debug"

	"contenthub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into 500 responses and logs the stack.
func Recovery(logger *pkg.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", map[string]interface{}{
					"panic":      r,
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(ContextRequestID),
					"stack":      string(debug.Stack()),
				})
				pkg.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
