package mapper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	mongostore "github.com/mongomap/mongomap/pkg/store/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PreSaveHook runs against a document before it is persisted. Returning an
// error aborts the save.
type PreSaveHook func(doc map[string]interface{}) error

// MongoStore adapts the store/mongodb adapter to the mapper Store contract.
// Pre-save hooks can be registered per collection; the replace path relies
// on them still running for body-driven saves.
type MongoStore struct {
	adapter *mongostore.Adapter
	mu      sync.RWMutex
	hooks   map[string][]PreSaveHook
}

// NewMongoStore creates a MongoStore over an established adapter.
func NewMongoStore(adapter *mongostore.Adapter) (*MongoStore, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	return &MongoStore{
		adapter: adapter,
		hooks:   make(map[string][]PreSaveHook),
	}, nil
}

// PreSave registers a hook invoked before every save into the named
// collection, in registration order.
func (s *MongoStore) PreSave(collection string, hook PreSaveHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[collection] = append(s.hooks[collection], hook)
}

// Collection returns a Collection handle bound to the named collection.
func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{store: s, name: name}
}

func (s *MongoStore) hooksFor(name string) []PreSaveHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PreSaveHook{}, s.hooks[name]...)
}

type mongoCollection struct {
	store *MongoStore
	name  string
}

func (c *mongoCollection) Find(ctx context.Context, query Query) ([]map[string]interface{}, error) {
	raw, err := c.store.adapter.Find(ctx, c.name, toBSON(query))
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(raw))
	for _, doc := range raw {
		out = append(out, map[string]interface{}(doc))
	}
	return out, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, query Query) (map[string]interface{}, error) {
	result := bson.M{}
	err := c.store.adapter.FindOne(ctx, c.name, toBSON(query), &result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}(result), nil
}

func (c *mongoCollection) Remove(ctx context.Context, query Query) (int64, error) {
	result, err := c.store.adapter.DeleteMany(ctx, c.name, toBSON(query))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Save persists the document after running the collection's pre-save hooks.
// Documents without an _id are inserted with a fresh ObjectID; documents
// carrying one replace the stored version (upsert).
func (c *mongoCollection) Save(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	for _, hook := range c.store.hooksFor(c.name) {
		if err := hook(doc); err != nil {
			return nil, fmt.Errorf("pre-save hook: %w", err)
		}
	}

	id, hasID := doc["_id"]
	if !hasID {
		id = primitive.NewObjectID()
		doc["_id"] = id
		if _, err := c.store.adapter.InsertOne(ctx, c.name, bson.M(doc)); err != nil {
			return nil, err
		}
		return doc, nil
	}

	if _, err := c.store.adapter.ReplaceOne(ctx, c.name, bson.M{"_id": coerceID(id)}, bson.M(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

// toBSON converts the built query to a driver filter, coercing identity
// values so that hex strings from path parameters match stored ObjectIDs.
func toBSON(query Query) bson.M {
	filter := bson.M{}
	for field, value := range query {
		if field == "_id" {
			filter[field] = coerceID(value)
			continue
		}
		filter[field] = value
	}
	return filter
}

func coerceID(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid
	}
	return value
}
