package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// maxRequestIDLen is the longest form uuid.Parse accepts ("urn:uuid:" prefix).
const maxRequestIDLen = 45

type requestIDCtxKey struct{}

// RequestIDMiddleware keeps an inbound X-Request-ID only when it is a UUID and
// generates a fresh one otherwise. The ID is echoed in the response header and
// stored both on the gin context and in the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := normalizeRequestID(c.GetHeader(RequestIDHeader))

		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDCtxKey{}, requestID))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func normalizeRequestID(raw string) string {
	if raw != "" && len(raw) <= maxRequestIDLen {
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return RequestIDFromContext(c.Request.Context())
}

// RequestIDFromContext returns the ID stored by RequestIDMiddleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}
