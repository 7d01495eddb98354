package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Augusto9237/dg-notas-sub001/internal/handler"
)

// CronAuth protects scheduled/cron-triggered endpoints with a server-held
// bearer secret.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || secret == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing cron token"))
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid cron token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
