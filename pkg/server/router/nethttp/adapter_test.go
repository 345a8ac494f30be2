package nethttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mongomap/mongomap/pkg/server/router"
)

func TestRouter_MethodDispatch(t *testing.T) {
	r := NewRouter()
	methods := map[string]func(string, router.HandlerFunc, ...router.MiddlewareFunc){
		http.MethodGet:    r.GET,
		http.MethodPost:   r.POST,
		http.MethodPut:    r.PUT,
		http.MethodDelete: r.DELETE,
	}
	for method, register := range methods {
		m := method
		register("/widgets", func(c router.Context) error {
			return c.String(http.StatusOK, m)
		})
	}

	for method := range methods {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, "/widgets", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", method, rec.Code)
		}
		if rec.Body.String() != method {
			t.Errorf("%s body = %q", method, rec.Body.String())
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := NewRouter()
	r.GET("/widgets", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gadgets", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/widgets", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("method mismatch status = %d, want 404", rec.Code)
	}
}

func TestRouter_PathParams(t *testing.T) {
	r := NewRouter()
	r.GET("/orgs/:org/widgets/:_id", func(c router.Context) error {
		if c.Param("org") != "acme" {
			t.Errorf("org = %q", c.Param("org"))
		}
		params := c.Params()
		if params["_id"] != "42" {
			t.Errorf("params = %v", params)
		}
		params["_id"] = "mutated"
		if c.Param("_id") != "42" {
			t.Error("Params() must return a copy")
		}
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orgs/acme/widgets/42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouter_GroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(name string) router.MiddlewareFunc {
		return func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	r := NewRouter()
	r.Use(mw("global"))
	api := r.Group("/api", mw("group"))
	api.GET("/widgets", func(c router.Context) error {
		order = append(order, "handler")
		return c.String(http.StatusOK, "ok")
	}, mw("route"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	want := []string{"global", "group", "route", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRouter_HandlerErrorBecomes500(t *testing.T) {
	r := NewRouter()
	r.GET("/broken", func(c router.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestContext_Bind(t *testing.T) {
	r := NewRouter()
	r.POST("/widgets", func(c router.Context) error {
		var doc map[string]interface{}
		if err := c.Bind(&doc); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, doc)
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"gear"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["name"] != "gear" {
		t.Errorf("body = %v", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader("name=gear"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-JSON content type status = %d, want 400", rec.Code)
	}
}

func TestContext_GetSet(t *testing.T) {
	r := NewRouter()
	r.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			c.Set("tenant", "acme")
			return next(c)
		}
	})
	r.GET("/widgets", func(c router.Context) error {
		if c.Get("tenant") != "acme" {
			t.Errorf("tenant = %v", c.Get("tenant"))
		}
		if c.Get("missing") != nil {
			t.Error("missing key should be nil")
		}
		return c.String(http.StatusOK, "ok")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/widgets", nil))
}

func TestResponseWriter_StatusTracking(t *testing.T) {
	r := NewRouter()
	r.GET("/teapot", func(c router.Context) error {
		if c.Response().Written() {
			t.Error("response marked written before any write")
		}
		if err := c.String(http.StatusTeapot, "short and stout"); err != nil {
			return err
		}
		if !c.Response().Written() {
			t.Error("response not marked written")
		}
		if c.Response().Status() != http.StatusTeapot {
			t.Errorf("status = %d", c.Response().Status())
		}
		return nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("recorded status = %d", rec.Code)
	}
}

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		ok      bool
		params  map[string]string
	}{
		{"/widgets", "/widgets", true, map[string]string{}},
		{"/widgets", "/widgets/42", false, nil},
		{"/widgets/:_id", "/widgets/42", true, map[string]string{"_id": "42"}},
		{"/a/:x/b/:y", "/a/1/b/2", true, map[string]string{"x": "1", "y": "2"}},
		{"/a/:x", "/b/1", false, nil},
	}

	for _, tt := range tests {
		params, ok := matchRoute(tt.pattern, tt.path)
		if ok != tt.ok {
			t.Errorf("matchRoute(%q, %q) ok = %v, want %v", tt.pattern, tt.path, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(params) != len(tt.params) {
			t.Errorf("matchRoute(%q, %q) params = %v, want %v", tt.pattern, tt.path, params, tt.params)
		}
		for k, v := range tt.params {
			if params[k] != v {
				t.Errorf("matchRoute(%q, %q) params[%q] = %q, want %q", tt.pattern, tt.path, k, params[k], v)
			}
		}
	}
}
