package server

import (
	"github.com/mongomap/mongomap/pkg/config"
	loggingmw "github.com/mongomap/mongomap/pkg/middleware/logging"
	metricsmw "github.com/mongomap/mongomap/pkg/middleware/metrics"
	"github.com/mongomap/mongomap/pkg/middleware/recovery"
	"github.com/mongomap/mongomap/pkg/middleware/requestid"
	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/server/router"
)

// APIServer is the public-facing server carrying the gateway's standard
// middleware stack: request ID, access logging, panic recovery, metrics.
type APIServer struct {
	*Server
}

// NewAPIServer wires the middleware stack onto the router and wraps it in a
// Server. Health and metrics endpoints are excluded from access logging.
func NewAPIServer(cfg config.HTTPConfig, r router.Router, log logger.Logger) *APIServer {
	r.Use(requestid.RequestID())
	r.Use(loggingmw.WithConfig(log, loggingmw.Config{
		Enabled:              true,
		ExcludedPathPrefixes: []string{"/health", "/metrics"},
	}))
	r.Use(recovery.Recovery(log))
	r.Use(metricsmw.Metrics())

	return &APIServer{Server: NewServer(cfg, r, log)}
}
