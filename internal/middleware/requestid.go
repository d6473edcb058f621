package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gobinath946/project-weaver-sub001/internal/constants"
	"github.com/gobinath946/project-weaver-sub001/internal/logger"
)

// RequestID tags every request with a unique id, echoes it back in the
// response header, and hangs a request-scoped logger on the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(constants.HeaderRequestID, requestID)

		ctxLogger := logger.Get().With(zap.String("request_id", requestID))
		c.Set(constants.ContextKeyLogger, ctxLogger)

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" before it ran.
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
