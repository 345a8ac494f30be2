package mapper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mongomap/mongomap/pkg/server/router/nethttp"
)

// fakeCollection records the queries and saves issued against it.
type fakeCollection struct {
	mu        sync.Mutex
	docs      []map[string]interface{}
	findErr   error
	saveErr   error
	removeErr error
	removed   int64

	lastQuery Query
	findCalls int
	saveCalls int
	saved     map[string]interface{}
}

func (f *fakeCollection) Find(_ context.Context, q Query) ([]map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.docs, nil
}

func (f *fakeCollection) FindOne(_ context.Context, q Query) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.docs) == 0 {
		return nil, nil
	}
	return f.docs[0], nil
}

func (f *fakeCollection) Remove(_ context.Context, q Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.removeErr != nil {
		return 0, f.removeErr
	}
	return f.removed, nil
}

func (f *fakeCollection) Save(_ context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = doc
	return doc, nil
}

// fakeStore resolves every name to the same collection unless overridden.
type fakeStore struct {
	collections map[string]*fakeCollection
	fallback    *fakeCollection
}

func newFakeStore(col *fakeCollection) *fakeStore {
	return &fakeStore{fallback: col}
}

func (s *fakeStore) Collection(name string) Collection {
	if col, ok := s.collections[name]; ok {
		return col
	}
	return s.fallback
}

// envelopeBody mirrors the wire shape of an enveloped item.
type envelopeBody struct {
	Meta struct {
		Can map[string]interface{} `json:"can"`
	} `json:"meta"`
	Data map[string]interface{} `json:"data"`
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelopes(t *testing.T, body []byte) []envelopeBody {
	t.Helper()
	var out []envelopeBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decoding envelope list: %v (body %s)", err, body)
	}
	return out
}

func decodeError(t *testing.T, body []byte) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decoding error body: %v (body %s)", err, body)
	}
	return out
}

func mountGET(svc *Service, path string, opts Options) http.Handler {
	r := nethttp.NewRouter()
	r.GET(path, svc.Get(opts))
	return r
}
