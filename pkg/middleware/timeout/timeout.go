package timeout

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware bounds the request context so store and identity lookups fail
// instead of blocking indefinitely.
func Middleware(d time.Duration) gin.HandlerFunc {
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
