package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a keyed request may proceed.
type Allower interface {
	Allow(key string, capacity, refillPerSec float64) bool
}

// RateLimit sheds requests per client IP with a token bucket. Rejected
// requests are answered by reject, or a bare 429 JSON body when reject is nil.
func RateLimit(l Allower, burst, perSecond float64, reject echo.HandlerFunc) echo.MiddlewareFunc {
	if reject == nil {
		reject = func(c echo.Context) error {
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": http.StatusText(http.StatusTooManyRequests),
			})
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP(), burst, perSecond) {
				return reject(c)
			}
			return next(c)
		}
	}
}
