package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adminkit/rbac-service/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// maxRequestIDLen caps inbound correlation ids so a hostile client cannot
// inflate log fields.
const maxRequestIDLen = 64

// RequestID propagates the caller's correlation id, or mints one when the
// inbound value is absent or oversized. The id is echoed in the response
// header and stored on the request context for the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// requestIDFrom returns the correlation id stored by RequestID, or "".
func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(logger.RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}
