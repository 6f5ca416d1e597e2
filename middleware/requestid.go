package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key for the request id.
	RequestIDKey = "requestID"

	// RequestIDHeader carries the id on requests and responses.
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an id, honoring one supplied by the
// caller so ids correlate across proxies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
