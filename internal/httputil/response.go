// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// errorBody is the wire shape of every error the API returns. The request ID
// is filled in whenever the request-ID middleware has run, so clients can
// quote it when reporting problems.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes the standard JSON error envelope and aborts the
// handler chain.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{
		Code:      code,
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}
