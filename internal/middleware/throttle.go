package middleware

import (
	"strconv"

	"salonos-service/internal/apperror"
	"salonos-service/internal/ratelimit"
	"salonos-service/pkg/logger"
	"salonos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Throttle limits credential endpoints per client IP.
// Limiter failures let the request through.
func Throttle(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Path() + ":" + c.RealIP()
			decision, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				logger.FromContext(c).Warn("Rate limiter unavailable", zap.Error(err))
				return next(c)
			}

			if decision.Limit > 0 {
				c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			}
			if !decision.Allowed {
				prometheus.RecordAuthError("rate_limited")
				return apperror.RateLimited("too many attempts, please try again later")
			}
			return next(c)
		}
	}
}
