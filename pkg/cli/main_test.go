package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mongomap/mongomap/pkg/config"
	"github.com/mongomap/mongomap/pkg/mapper"
	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/server/router/nethttp"
)

type fakeCollection struct {
	docs      []map[string]interface{}
	lastQuery mapper.Query
}

func (c *fakeCollection) Find(ctx context.Context, q mapper.Query) ([]map[string]interface{}, error) {
	c.lastQuery = q
	return c.docs, nil
}

func (c *fakeCollection) FindOne(ctx context.Context, q mapper.Query) (map[string]interface{}, error) {
	c.lastQuery = q
	if len(c.docs) == 0 {
		return nil, nil
	}
	return c.docs[0], nil
}

func (c *fakeCollection) Remove(ctx context.Context, q mapper.Query) (int64, error) {
	c.lastQuery = q
	return int64(len(c.docs)), nil
}

func (c *fakeCollection) Save(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	c.docs = append(c.docs, doc)
	return doc, nil
}

type fakeStore struct {
	collections map[string]*fakeCollection
}

func (s *fakeStore) Collection(name string) mapper.Collection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := &fakeCollection{}
	if s.collections == nil {
		s.collections = make(map[string]*fakeCollection)
	}
	s.collections[name] = c
	return c
}

func TestNewGatewayCommand_Subcommands(t *testing.T) {
	cmd := NewGatewayCommand(GatewayOptions{Name: "mongomap", Description: "mapping gateway"})

	want := map[string]bool{"serve": false, "version": false, "healthcheck": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if cmd.RunE == nil {
		t.Error("root command has no default action")
	}
}

func TestServeCommand_LoadsConfigAndDelegates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
mongo:
  database: widgets
routes:
  - collection: widgets
    path: /widgets
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var got config.Config
	cmd := NewGatewayCommand(GatewayOptions{
		Name: "mongomap",
		RunServer: func(ctx context.Context, cfg config.Config, log logger.Logger) error {
			got = cfg
			return nil
		},
	})
	cmd.SetArgs([]string{"serve", "--config-file", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Mongo.Database != "widgets" {
		t.Errorf("database = %q, want widgets", got.Mongo.Database)
	}
	if len(got.Routes) != 1 || got.Routes[0].Path != "/widgets" {
		t.Errorf("routes = %+v", got.Routes)
	}
}

func TestServeCommand_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("router_type: fasthttp\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := NewGatewayCommand(GatewayOptions{
		Name: "mongomap",
		RunServer: func(ctx context.Context, cfg config.Config, log logger.Logger) error {
			t.Fatal("server should not start with invalid config")
			return nil
		},
	})
	cmd.SetArgs([]string{"serve", "--config-file", path})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err == nil {
		t.Error("Execute with invalid config should fail")
	}
}

func TestMountRoutes_ServesCRUD(t *testing.T) {
	store := &fakeStore{}
	store.Collection("widgets").(*fakeCollection).docs = []map[string]interface{}{
		{"name": "gear", "org": "acme"},
	}

	svc := mapper.New(store)
	r := nethttp.NewRouter()

	routes := []config.RouteConfig{
		{
			Collection:          "widgets",
			Path:                "/widgets",
			OptionalQueryFields: []string{"org"},
			Envelope:            mapper.EnvelopeOff,
		},
	}
	if err := MountRoutes(r, svc, routes, nil); err != nil {
		t.Fatalf("MountRoutes: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets?org=acme", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 || body[0]["name"] != "gear" {
		t.Errorf("body = %v", body)
	}

	query := store.Collection("widgets").(*fakeCollection).lastQuery
	if query["org"] != "acme" {
		t.Errorf("query = %v, want org constraint", query)
	}
}

func TestMountRoutes_CustomizeApplied(t *testing.T) {
	store := &fakeStore{}
	svc := mapper.New(store)
	r := nethttp.NewRouter()

	routes := []config.RouteConfig{
		{Collection: "widgets", Path: "/widgets", Envelope: mapper.EnvelopeOff},
	}
	mounted := false
	err := MountRoutes(r, svc, routes, func(route config.RouteConfig, opts mapper.Options) mapper.Options {
		mounted = true
		if route.Collection != "widgets" {
			t.Errorf("route collection = %q", route.Collection)
		}
		return opts
	})
	if err != nil {
		t.Fatalf("MountRoutes: %v", err)
	}
	if !mounted {
		t.Error("customize callback not invoked")
	}
}
