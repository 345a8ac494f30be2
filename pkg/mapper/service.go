package mapper

import (
	"fmt"
	"net/http"

	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/server/router"
)

// Service is the mapping layer façade. It holds the store connection,
// service-wide default options, and the error handler used by the
// create/replace paths. All state is fixed at construction apart from the
// error handler, which can be swapped per instance.
type Service struct {
	store    Store
	log      logger.Logger
	defaults Options
	onError  ErrorHandler
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithLogger sets the logger used for store failures.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithDefaults sets service-wide default options, merged under every
// per-route Options value.
func WithDefaults(opts Options) Option {
	return func(s *Service) { s.defaults = opts }
}

// WithErrorHandler sets the handler invoked when a save fails on the
// create and replace paths.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(s *Service) { s.onError = fn }
}

// New creates a mapping service over the given store.
func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("mapper: store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.onError == nil {
		s.onError = s.defaultErrorHandler
	}
	return s
}

// SetErrorHandler replaces the save-failure handler for this service
// instance. It affects the create and replace error paths only; the
// responder's database-error path is independent.
func (s *Service) SetErrorHandler(fn ErrorHandler) {
	if fn == nil {
		fn = s.defaultErrorHandler
	}
	s.onError = fn
}

// Get returns a handler that fetches all documents matching the built query.
func (s *Service) Get(opts Options) router.HandlerFunc {
	return s.fetchHandler(s.resolve(opts))
}

// Post returns a handler that creates a document from the request body.
func (s *Service) Post(opts Options) router.HandlerFunc {
	return s.createHandler(s.resolve(opts))
}

// Put returns a handler that merges the request body into the single
// document matching the built query.
func (s *Service) Put(opts Options) router.HandlerFunc {
	return s.replaceHandler(s.resolve(opts))
}

// Del returns a handler that removes every document matching the built query.
func (s *Service) Del(opts Options) router.HandlerFunc {
	return s.deleteHandler(s.resolve(opts))
}

// resolve merges built-in defaults, service-wide defaults, and per-route
// options (later layers override earlier), and resolves the collection
// handle. It is invoked once per factory call; the result is never shared
// across routes. Missing collection identity is a registration-time
// programming error and panics.
func (s *Service) resolve(opts Options) config {
	merged := overlay(overlay(builtinDefaults(), s.defaults), opts)

	collection := merged.Handle
	if collection == nil {
		if merged.Collection == "" {
			panic("mapper: options must name a collection or carry a handle")
		}
		collection = s.store.Collection(merged.Collection)
	}

	useEnvelope := true
	if merged.UseEnvelope != nil {
		useEnvelope = *merged.UseEnvelope
	}

	return config{
		collection:     collection,
		collectionName: merged.Collection,
		required:       merged.RequiredQueryFields,
		optional:       merged.OptionalQueryFields,
		decorate:       merged.Decorate,
		filter:         merged.Filter,
		useEnvelope:    useEnvelope,
		annotate:       merged.Annotate,
		postLoad:       merged.PostLoad,
	}
}

// builtinDefaults is the innermost configuration layer: envelope on,
// allow-all filter, no-op hooks.
func builtinDefaults() Options {
	return Options{
		UseEnvelope: EnvelopeOn,
		Filter:      func(map[string]interface{}, router.Context) bool { return true },
	}
}

func (s *Service) defaultErrorHandler(c router.Context, err error) error {
	s.log.Error("document save failed", "error", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Error:   "database_error",
		Message: "database operation failed",
	})
}

// handleError routes create/replace save failures through the instance
// error handler.
func (s *Service) handleError(c router.Context, err error) error {
	return s.onError(c, fmt.Errorf("mapper: %w", err))
}
