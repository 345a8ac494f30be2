package mapper

import "context"

// Query is an exact-match filter over document fields, built fresh per request.
type Query map[string]interface{}

// Store resolves named collections. Resolution is expected to be cheap and
// must not fail for unknown names; document stores create collections lazily.
type Store interface {
	Collection(name string) Collection
}

// Collection is the minimal document-store contract the mapping layer
// operates against.
type Collection interface {
	// Find returns all documents matching the query, as plain data.
	Find(ctx context.Context, query Query) ([]map[string]interface{}, error)

	// FindOne returns the first document matching the query, or (nil, nil)
	// when no document matches.
	FindOne(ctx context.Context, query Query) (map[string]interface{}, error)

	// Remove deletes every document matching the query and returns the
	// number of documents removed.
	Remove(ctx context.Context, query Query) (int64, error)

	// Save persists the document and returns it as stored. Documents without
	// an identity field are inserted; documents carrying one replace the
	// stored version. Implementations run any registered pre-save hooks.
	Save(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error)
}
