package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin.Context key RequestID stores the id under.
const RequestIDKey = "request_id"

// RequestID ensures every request carries a correlation id: it honors an
// incoming X-Request-ID header when it is 1 to 64 bytes long, otherwise
// mints a new UUID. The id is echoed in the response header and stashed in
// the context for handlers and loggers to pick up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if l := len(requestID); l < 1 || l > 64 {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request id stashed by RequestID, or "" if the
// middleware did not run.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
