package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/contextutil"
)

const RequestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context and response headers, and
// stores a request-scoped logger carrying it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := contextutil.WithRequestID(c.Request.Context(), requestID)
		logger := zap.L().With(zap.String("request_id", requestID))
		ctx = contextutil.WithLogger(ctx, logger)

		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
