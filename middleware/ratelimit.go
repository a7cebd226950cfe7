package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/utils"
)

// RateLimit throttles requests per client IP using a Redis counter. It is
// applied to the login endpoint to slow down credential guessing. Redis
// trouble fails open: locking out every user because the counter store is
// down would be worse than briefly losing the throttle.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration, log *logrus.Logger) gin.HandlerFunc {
	if rdb == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 || window <= 0 {
		panic("maxRequests and window must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()

		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.WithError(err).Warn("rate limit counter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(maxRequests) {
			utils.JSONError(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
