package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/shared/telemetry"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Error sends the unified failure envelope and aborts the request. Every
// endpoint reports failures as {"success":false,"message":...}.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
