// Package logging provides structured access logging for the gateway.
package logging

import (
	"strings"
	"time"

	"github.com/mongomap/mongomap/pkg/middleware/requestid"
	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/server/router"
)

// Config configures request logging behavior.
type Config struct {
	Enabled bool
	// ExcludedPathPrefixes suppresses logging for matching paths, typically
	// health and metrics endpoints.
	ExcludedPathPrefixes []string
}

// DefaultConfig enables logging for all paths.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// Logging creates access-log middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates middleware that logs one event per completed request:
// method, path, status, duration, and the correlation ID.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			path := c.Request().URL.Path
			if !cfg.Enabled || excluded(cfg.ExcludedPathPrefixes, path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			fields := []any{
				"request_id", requestid.GetRequestID(c.Request().Context()),
				"method", c.Request().Method,
				"path", path,
				"status", c.Response().Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", c.Request().RemoteAddr,
			}

			if err != nil {
				log.Error("request failed", append(fields, "error", err)...)
				return err
			}
			log.Info("request completed", fields...)
			return nil
		}
	}
}

func excluded(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
