// Package metrics records Prometheus metrics for every request.
package metrics

import (
	"time"

	"github.com/mongomap/mongomap/pkg/observability/metrics"
	"github.com/mongomap/mongomap/pkg/server/router"
)

// Metrics creates middleware that tracks request duration, request counts,
// and the in-flight gauge.
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)

			metrics.RecordHTTPMetrics(
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status(),
				time.Since(start),
			)

			return err
		}
	}
}
