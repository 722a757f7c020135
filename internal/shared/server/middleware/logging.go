package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		conversationID, _ := c.Get("conversationId")
		questionID, _ := c.Get("questionId")
		attemptID, _ := c.Get("attemptId")
		stage := ""
		if raw, ok := c.Get("stage"); ok {
			if s, ok := raw.(string); ok {
				stage = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":      reqID,
			"method":          c.Request.Method,
			"path":            c.Request.URL.Path,
			"status":          status,
			"stage":           stage,
			"duration_ms":     float64(latency.Microseconds()) / 1000.0,
			"conversation_id": conversationID,
			"question_id":     questionID,
			"attempt_id":      attemptID,
			"client_ip":       c.ClientIP(),
			"user_agent":      c.Request.UserAgent(),
		})
	}
}
