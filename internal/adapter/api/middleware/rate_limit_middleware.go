package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"eventhub/pkg/errors"
	"eventhub/pkg/logger"
)

// IPRateLimit throttles requests per client IP. perSecond <= 0 disables it.
func IPRateLimit(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if burst <= 0 {
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errors.Internal("Failed to identify client", err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("rate limit: blocked %s %s from %s", c.Request().Method, c.Path(), identifier)
			return errors.TooManyRequests("Too many requests. Please try again later", 1)
		},
	})
}
