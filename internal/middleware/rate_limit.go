package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit enforces a fixed-window per-minute request cap keyed on the
// caller's user ID, falling back to the client IP for anonymous requests.
// Redis being down never blocks traffic; the limiter fails open.
func RateLimit(client *redis.Client, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || perMinute <= 0 {
			c.Next()
			return
		}

		caller := c.GetHeader("X-User-ID")
		if caller == "" {
			caller = c.ClientIP()
		}
		window := time.Now().UTC().Format("200601021504")
		key := fmt.Sprintf("ratelimit:%s:%s", caller, window)

		ctx := context.Background()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, time.Minute)
		}
		if count > int64(perMinute) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
