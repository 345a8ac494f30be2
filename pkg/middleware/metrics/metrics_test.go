package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	obsmetrics "github.com/mongomap/mongomap/pkg/observability/metrics"
	"github.com/mongomap/mongomap/pkg/server/router"
	"github.com/mongomap/mongomap/pkg/server/router/nethttp"
)

func newInstrumentedRouter() *nethttp.NetHTTPRouter {
	r := nethttp.NewRouter()
	r.Use(Metrics())
	return r
}

func TestMetrics_SuccessfulRequest(t *testing.T) {
	reg := obsmetrics.NewRegistry()

	r := newInstrumentedRouter()
	r.GET("/widgets", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	before, err := testutil.GatherAndCount(reg.Gatherer(), "http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	after, err := testutil.GatherAndCount(reg.Gatherer(), "http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if after < before {
		t.Errorf("http_requests_total series count shrank: %d -> %d", before, after)
	}
	if after == 0 {
		t.Error("no http_requests_total series recorded")
	}
}

func TestMetrics_RecordedOnHandlerError(t *testing.T) {
	reg := obsmetrics.NewRegistry()

	r := newInstrumentedRouter()
	r.GET("/broken", func(c router.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))

	count, err := testutil.GatherAndCount(reg.Gatherer(), "http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count == 0 {
		t.Error("metrics not recorded for failed handler")
	}
}

func TestMetrics_DifferentStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"ok", "/ok", http.StatusOK},
		{"created", "/created", http.StatusCreated},
		{"bad request", "/bad", http.StatusBadRequest},
		{"server error", "/error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newInstrumentedRouter()
			status := tt.status
			r.GET(tt.path, func(c router.Context) error {
				return c.String(status, http.StatusText(status))
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
