package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout 為每個請求設定逾時，下游以 context 感知
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
