package mapper

import (
	"github.com/mongomap/mongomap/pkg/server/router"
)

// FilterFunc is a per-document visibility predicate. Documents for which it
// returns false are withheld from responses (and mutations are rejected).
type FilterFunc func(doc map[string]interface{}, c router.Context) bool

// DecoratorFunc mutates the derived query before it is executed.
type DecoratorFunc func(q Query, c router.Context)

// AnnotatorFunc mutates envelope metadata for a single result item.
type AnnotatorFunc func(c router.Context, env *Envelope)

// PostLoadFunc reshapes raw store results before filtering and enveloping.
type PostLoadFunc func(results interface{}, c router.Context) interface{}

// ErrorHandler reports a store failure on the create/replace paths.
type ErrorHandler func(c router.Context, err error) error

// Envelope wraps a single result item with caller-populated metadata.
type Envelope struct {
	Meta Meta                   `json:"meta"`
	Data map[string]interface{} `json:"data"`
}

// Meta carries envelope metadata. Can is populated only by the annotator.
type Meta struct {
	Can map[string]interface{} `json:"can"`
}

// Options declares a CRUD route over one collection. The zero value is valid
// apart from the collection: either Collection (a name resolved through the
// service's store) or Handle (a pre-resolved collection) must be set.
type Options struct {
	// Collection names the store collection to operate on.
	Collection string

	// Handle overrides name-based resolution with a concrete collection.
	Handle Collection

	// RequiredQueryFields must be present and non-empty in the query string;
	// a missing field fails the request before any store call.
	RequiredQueryFields []string

	// OptionalQueryFields are added to the query only when non-empty.
	OptionalQueryFields []string

	// Decorate mutates the built query before execution.
	Decorate DecoratorFunc

	// Filter gates per-document visibility and authorization.
	Filter FilterFunc

	// UseEnvelope controls result wrapping. Nil inherits the service-wide
	// setting (wrapping enabled by default).
	UseEnvelope *bool

	// Annotate mutates envelope metadata per item. Only invoked when
	// enveloping is enabled.
	Annotate AnnotatorFunc

	// PostLoad reshapes raw results before filtering and enveloping.
	PostLoad PostLoadFunc
}

// For is the bare-collection-name calling convention:
// svc.Get(mapper.For("users")) is equivalent to
// svc.Get(mapper.Options{Collection: "users"}).
func For(name string) Options {
	return Options{Collection: name}
}

// Envelope and NoEnvelope are ready-made values for Options.UseEnvelope.
var (
	envelopeOn  = true
	envelopeOff = false

	// EnvelopeOn forces result wrapping for a route.
	EnvelopeOn = &envelopeOn
	// EnvelopeOff disables result wrapping for a route.
	EnvelopeOff = &envelopeOff
)

// config is the merged, immutable per-route configuration. It is derived
// once per factory invocation and never shared across routes.
type config struct {
	collection     Collection
	collectionName string
	required       []string
	optional       []string
	decorate       DecoratorFunc
	filter         FilterFunc
	useEnvelope    bool
	annotate       AnnotatorFunc
	postLoad       PostLoadFunc
}

// overlay applies non-zero fields of opts on top of base.
func overlay(base, opts Options) Options {
	out := base
	if opts.Collection != "" {
		out.Collection = opts.Collection
	}
	if opts.Handle != nil {
		out.Handle = opts.Handle
	}
	if opts.RequiredQueryFields != nil {
		out.RequiredQueryFields = opts.RequiredQueryFields
	}
	if opts.OptionalQueryFields != nil {
		out.OptionalQueryFields = opts.OptionalQueryFields
	}
	if opts.Decorate != nil {
		out.Decorate = opts.Decorate
	}
	if opts.Filter != nil {
		out.Filter = opts.Filter
	}
	if opts.UseEnvelope != nil {
		out.UseEnvelope = opts.UseEnvelope
	}
	if opts.Annotate != nil {
		out.Annotate = opts.Annotate
	}
	if opts.PostLoad != nil {
		out.PostLoad = opts.PostLoad
	}
	return out
}

// reservedFields are never overwritten from a request body: the identity key
// and the store's internal version key are excluded by construction.
var reservedFields = map[string]struct{}{
	"_id": {},
	"__v": {},
}

// mergeDocument copies every non-reserved field of src onto dst. Fields
// absent from src are left untouched (a merge, not a replace).
func mergeDocument(dst, src map[string]interface{}) {
	for k, v := range src {
		if _, reserved := reservedFields[k]; reserved {
			continue
		}
		dst[k] = v
	}
}
