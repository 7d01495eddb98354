package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID is echoed back on every response so push and poll
	// round-trips can be correlated with server logs.
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID is the gin context key the request id is stored under.
	ContextRequestID = "request_id"
)

// RequestID tags each request with an id, honoring one supplied by the
// caller and minting a uuid otherwise.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
