package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key holding the canonical request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader carries the request ID on responses, and optionally a
	// client-chosen correlation ID on requests.
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with a server-generated UUID, stored in the
// context and echoed on the response. A client-supplied X-Request-ID is never
// trusted as the canonical ID; it is kept alongside as a correlation field so
// logs can be matched to the caller's own tracing.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		if theirs := c.GetHeader(RequestIDHeader); theirs != "" {
			c.Set("client_request_id", theirs)
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": theirs,
			}).Debug("correlating client request ID")
		}

		c.Next()
	}
}
