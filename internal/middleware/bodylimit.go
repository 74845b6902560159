package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize caps how much request body a handler may read. The cap is
// sized in the router to leave room for bulk import payloads.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if body := c.Request.Body; body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, body, maxBytes)
		}

		c.Next()
	}
}
