package mapper

import (
	"net/http"
	"strings"
	"testing"

	"github.com/mongomap/mongomap/pkg/server/router"
	"github.com/mongomap/mongomap/pkg/server/router/nethttp"
)

func TestBinding_DeferredResolvesByMethod(t *testing.T) {
	svc := New(newFakeStore(&fakeCollection{}))
	b := svc.Auto(For("things"))

	if !b.Deferred() {
		t.Fatal("Auto must produce a deferred binding")
	}
	if _, err := b.Handler(); err == nil {
		t.Fatal("deferred binding must refuse to hand out a handler without a method")
	}

	for _, method := range []string{"GET", "get", "PUT", "POST", "DELETE", "del", "delete"} {
		h, err := b.Resolve(method)
		if err != nil {
			t.Fatalf("method %s: %v", method, err)
		}
		if h == nil {
			t.Fatalf("method %s: nil handler", method)
		}
	}
}

func TestBinding_UnknownMethod(t *testing.T) {
	svc := New(newFakeStore(&fakeCollection{}))
	b := svc.Auto(For("things"))
	if _, err := b.Resolve("TRACE"); err == nil {
		t.Fatal("expected error for unsupported method")
	}
}

func TestBinding_ConcreteIgnoresMethod(t *testing.T) {
	called := false
	b := Bound(func(router.Context) error {
		called = true
		return nil
	})

	if b.Deferred() {
		t.Fatal("Bound must produce a concrete binding")
	}
	h, err := b.Resolve("DELETE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h(nil); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !called {
		t.Fatal("concrete binding must resolve to its own handler")
	}
}

func TestBinding_MountRegistersCRUDRoutes(t *testing.T) {
	col := &fakeCollection{
		docs:    []map[string]interface{}{{"_id": "42", "name": "a"}},
		removed: 1,
	}
	svc := New(newFakeStore(col))

	r := nethttp.NewRouter()
	if err := svc.Auto(For("things")).Mount(r, "/things"); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	if w := doRequest(r, http.MethodGet, "/things", ""); w.Code != http.StatusOK {
		t.Fatalf("GET collection: %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/things", `{"name":"b"}`); w.Code != http.StatusOK {
		t.Fatalf("POST collection: %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/things/42", ""); w.Code != http.StatusOK {
		t.Fatalf("GET item: %d", w.Code)
	}
	if w := doRequest(r, http.MethodPut, "/things/42", `{"name":"c"}`); w.Code != http.StatusOK {
		t.Fatalf("PUT item: %d", w.Code)
	}
	w := doRequest(r, http.MethodDelete, "/things/42", "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE item: %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "1" {
		t.Fatalf("DELETE must report the removal count, got %q", got)
	}

	// Item routes constrain by the _id path parameter.
	if col.lastQuery["_id"] != "42" {
		t.Fatalf("item query missing _id constraint: %v", col.lastQuery)
	}
}

func TestBinding_MountRejectsConcrete(t *testing.T) {
	b := Bound(func(router.Context) error { return nil })
	if err := b.Mount(nethttp.NewRouter(), "/things"); err == nil {
		t.Fatal("expected error mounting a concrete binding")
	}
}
