package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldcraft/fieldcraft-backend/internal/http/response"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/ratelimit"
)

// RateLimit applies the sliding-window limiter per workspace, falling back
// to client IP for unauthenticated routes. Limiter failures fail open.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if claims := GetClaims(c); claims != nil {
			key = "ws:" + claims.WorkspaceID.String()
		}

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable; allowing request", "error", err)
			c.Next()
			return
		}

		if !res.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())))
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited",
				fmt.Errorf("rate limit exceeded, retry in %s", res.RetryAfter))
			c.Abort()
			return
		}
		c.Next()
	}
}
