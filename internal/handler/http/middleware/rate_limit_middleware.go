package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bugloop/issue-tracker/internal/config"
	"github.com/bugloop/issue-tracker/internal/infrastructure/ratelimit"
	"github.com/bugloop/issue-tracker/internal/utils/metrics"
)

// RateLimitMiddleware applies one named rule keyed by client IP. Limiter
// errors fail open so a Redis outage does not take authentication down
// with it.
func RateLimitMiddleware(limiter ratelimit.Limiter, name string, rule config.RateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rule.Enabled {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", name, c.ClientIP())
		allowed, err := limiter.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			logger.Error("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitExceededTotal.Inc()
			logger.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", rule.Limit),
				zap.Duration("window", rule.Window),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
