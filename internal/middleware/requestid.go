package middleware

import (
	"fulfillment-be/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID propagates an incoming X-Request-ID or generates one, and makes
// it available to logger.FromCtx via the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", reqID)

		c.Next()
	}
}
