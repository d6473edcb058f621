package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/logger"
)

// errorBody is the wire shape of a failure response.
type errorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// ErrorHandler is the single boundary where application errors become HTTP
// responses. Handlers attach errors with c.Error and return; this middleware
// maps the kind to a status and stable code, logs the original cause with
// request metadata, and never leaks internals to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperrors.From(c.Errors.Last().Err)
		status := appErr.HTTPStatus()

		log := logger.FromGin(c).With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", appErr.Code),
		)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(appErr))
		} else {
			log.Warn("request rejected", zap.String("message", appErr.Message))
		}

		body := errorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			Timestamp: time.Now().UTC(),
			RequestID: GetRequestID(c),
		}
		if status >= http.StatusInternalServerError {
			// Internal causes stay in the logs.
			body.Message = "Internal server error"
			body.Details = nil
		}

		c.JSON(status, gin.H{"success": false, "error": body})
	}
}

// Recovery converts panics into the same error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromGin(c).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": errorBody{
				Code:      apperrors.CodeInternal,
				Message:   "Internal server error",
				Timestamp: time.Now().UTC(),
				RequestID: GetRequestID(c),
			},
		})
		c.Abort()
	})
}
