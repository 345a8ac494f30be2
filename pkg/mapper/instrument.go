package mapper

import (
	"context"
	"time"

	"github.com/mongomap/mongomap/pkg/observability/metrics"
)

// InstrumentStore wraps a Store so every collection operation is recorded
// in the gateway's Prometheus metrics.
func InstrumentStore(next Store) Store {
	return &instrumentedStore{next: next}
}

type instrumentedStore struct {
	next Store
}

func (s *instrumentedStore) Collection(name string) Collection {
	return &instrumentedCollection{name: name, next: s.next.Collection(name)}
}

type instrumentedCollection struct {
	name string
	next Collection
}

func (c *instrumentedCollection) Find(ctx context.Context, query Query) ([]map[string]interface{}, error) {
	start := time.Now()
	docs, err := c.next.Find(ctx, query)
	metrics.RecordDocumentOperation(c.name, "find", err, time.Since(start))
	return docs, err
}

func (c *instrumentedCollection) FindOne(ctx context.Context, query Query) (map[string]interface{}, error) {
	start := time.Now()
	doc, err := c.next.FindOne(ctx, query)
	metrics.RecordDocumentOperation(c.name, "find_one", err, time.Since(start))
	return doc, err
}

func (c *instrumentedCollection) Remove(ctx context.Context, query Query) (int64, error) {
	start := time.Now()
	count, err := c.next.Remove(ctx, query)
	metrics.RecordDocumentOperation(c.name, "remove", err, time.Since(start))
	return count, err
}

func (c *instrumentedCollection) Save(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	start := time.Now()
	saved, err := c.next.Save(ctx, doc)
	metrics.RecordDocumentOperation(c.name, "save", err, time.Since(start))
	return saved, err
}
