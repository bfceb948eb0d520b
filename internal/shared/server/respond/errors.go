package respond

import (
	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/shared/telemetry"
)

// ErrorBody is the payload under "error" in every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error logs the failure and aborts the request with {"error": {...}}.
// 5xx logs at error level, everything else at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	logf := telemetry.Warn
	if status >= 500 {
		logf = telemetry.Error
	}
	logf("http.error", errorFields(c, status, code, message))

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// errorFields reads the identity keys set by the middleware package by name,
// since that package depends on this one.
func errorFields(c *gin.Context, status int, code, message string) map[string]any {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("requestId"),
	}
	if route := c.FullPath(); route != "" {
		fields["route"] = route
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
		fields["is_guest"] = c.GetBool("isGuest")
	}
	return fields
}
