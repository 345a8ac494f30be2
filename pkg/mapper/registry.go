package mapper

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mongomap/mongomap/pkg/server/router"
)

// Operation names one of the mapping layer's handler factories.
type Operation string

// Supported operations.
const (
	OpGet  Operation = "get"
	OpPut  Operation = "put"
	OpPost Operation = "post"
	OpDel  Operation = "del"
)

// Handler looks up the factory for op and produces a handler from opts.
// Configuration is re-derived on every invocation; nothing is shared
// between the returned handler and any other route.
func (s *Service) Handler(op Operation, opts Options) (router.HandlerFunc, error) {
	factory, ok := s.factoryFor(op)
	if !ok {
		return nil, fmt.Errorf("mapper: unknown operation %q", op)
	}
	return factory(s.resolve(opts)), nil
}

func (s *Service) factoryFor(op Operation) (func(config) router.HandlerFunc, bool) {
	switch op {
	case OpGet:
		return s.fetchHandler, true
	case OpPut:
		return s.replaceHandler, true
	case OpPost:
		return s.createHandler, true
	case OpDel:
		return s.deleteHandler, true
	default:
		return nil, false
	}
}

// Binding is either a concrete handler or a deferred method dispatch. The
// deferred form lets one Options value serve multiple HTTP methods on the
// same route, with the concrete operation chosen at route-registration time
// via Resolve.
type Binding struct {
	handler  router.HandlerFunc
	service  *Service
	deferred *Options
}

// Auto returns a deferred Binding over opts. The route-registration layer
// resolves it per method; each resolution derives its own configuration.
func (s *Service) Auto(opts Options) Binding {
	o := opts
	return Binding{service: s, deferred: &o}
}

// Bound wraps an already-produced handler as a concrete Binding.
func Bound(h router.HandlerFunc) Binding {
	return Binding{handler: h}
}

// Deferred reports whether the binding still needs method resolution.
func (b Binding) Deferred() bool {
	return b.deferred != nil
}

// Handler returns the concrete handler. It fails on a deferred binding;
// call Resolve with a method first.
func (b Binding) Handler() (router.HandlerFunc, error) {
	if b.Deferred() {
		return nil, fmt.Errorf("mapper: binding is deferred; resolve it with a method")
	}
	return b.handler, nil
}

// Resolve produces the handler for the given HTTP method or short operation
// name (get, put, post, del, delete; case-insensitive). A concrete binding
// resolves to its own handler regardless of method.
func (b Binding) Resolve(method string) (router.HandlerFunc, error) {
	if !b.Deferred() {
		return b.handler, nil
	}

	op, err := operationForMethod(method)
	if err != nil {
		return nil, err
	}
	return b.service.Handler(op, *b.deferred)
}

func operationForMethod(method string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "get":
		return OpGet, nil
	case "put":
		return OpPut, nil
	case "post":
		return OpPost, nil
	case "del", "delete":
		return OpDel, nil
	default:
		return "", fmt.Errorf("mapper: no operation for method %q", method)
	}
}

// Mount registers the full CRUD route set for a deferred binding: GET and
// POST on path, and GET, PUT and DELETE on path + "/:_id". Concrete bindings
// cannot be mounted; they belong to a single method.
func (b Binding) Mount(r router.Router, path string) error {
	if !b.Deferred() {
		return fmt.Errorf("mapper: only deferred bindings can be mounted")
	}

	get, err := b.Resolve(http.MethodGet)
	if err != nil {
		return err
	}
	post, err := b.Resolve(http.MethodPost)
	if err != nil {
		return err
	}
	put, err := b.Resolve(http.MethodPut)
	if err != nil {
		return err
	}
	del, err := b.Resolve(http.MethodDelete)
	if err != nil {
		return err
	}

	item := path + "/:_id"
	r.GET(path, get)
	r.POST(path, post)
	r.GET(item, get)
	r.PUT(item, put)
	r.DELETE(item, del)
	return nil
}
