package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"reviewhub/internal/api/apierr"
)

// ScopeBurstNonEmployee is the single throttle bucket shared by all
// content endpoints.
const ScopeBurstNonEmployee = "burst-non-employee"

// ScopedThrottle is a fixed-window rate limiter with counters in redis.
// Moderators and administrators are exempt.
type ScopedThrottle struct {
	rdb    *redis.Client
	rate   int
	window time.Duration
	log    *logrus.Logger
}

func NewScopedThrottle(rdb *redis.Client, rate int, window time.Duration, log *logrus.Logger) *ScopedThrottle {
	return &ScopedThrottle{
		rdb:    rdb,
		rate:   rate,
		window: window,
		log:    log,
	}
}

// Limit returns the middleware enforcing the named scope. The window key is
// the scope plus the caller identity: user id when authenticated, client IP
// otherwise.
func (t *ScopedThrottle) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user.IsEmployee() {
			c.Next()
			return
		}

		ident := c.ClientIP()
		if user != nil {
			ident = user.ID
		}
		key := fmt.Sprintf("throttle:%s:%s", scope, ident)

		ctx := c.Request.Context()
		count, err := t.rdb.Incr(ctx, key).Result()
		if err != nil {
			// Fail open: a throttle outage must not take the API down.
			t.log.WithError(err).Warn("throttle counter unavailable, letting request through")
			c.Next()
			return
		}
		if count == 1 {
			if err := t.rdb.Expire(ctx, key, t.window).Err(); err != nil {
				t.log.WithError(err).Warn("failed to set throttle window expiry")
			}
		}

		if count > int64(t.rate) {
			apierr.Abort(c, apierr.Throttled("request was throttled"))
			return
		}
		c.Next()
	}
}
