package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/shared/server/respond"
	"nutricoach-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a logged 500 with the standard error
// body. If the handler already wrote a response, the request is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				handlePanic(c, rec)
			}
		}()
		c.Next()
	}
}

func handlePanic(c *gin.Context, rec any) {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	telemetry.Error("http.panic", map[string]any{
		"request_id": RequestIDFromContext(c),
		"user_id":    UserIDFromContext(c),
		"route":      route,
		"method":     c.Request.Method,
		"error":      fmt.Sprint(rec),
		"stack":      string(debug.Stack()),
	})

	if c.Writer.Written() {
		c.Abort()
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
}
