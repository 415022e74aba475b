package middleware

import (
	"errors"
	"net/http"

	"goldvault-backend/internal/infrastructure/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count, latency and in-flight requests,
// labelled by the route template rather than the raw path.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			done := m.RequestStarted()
			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			done(c.Request().Method, path, status)
			return err
		}
	}
}
