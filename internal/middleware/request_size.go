package middleware

import (
	"net/http"

	"ecommerce-backend/internal/logger"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxRequestSize bounds JSON bodies. No endpoint accepts uploads.
const DefaultMaxRequestSize int64 = 1 << 20

// RequestSizeLimitMiddleware rejects declared oversize bodies up front and caps
// streamed ones at maxSize bytes.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logger.FromContext(c.Request.Context()).Warn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", maxSize),
				zap.String("event", "request_too_large"),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
