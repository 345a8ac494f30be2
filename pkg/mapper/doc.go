// Package mapper turns declarative route configuration into CRUD handlers
// over a document store.
//
// A Service is constructed from a Store and exposes one handler factory per
// operation (Get, Post, Put, Del). Each factory accepts Options describing
// the target collection, the query fields derived from the request, and the
// per-route capabilities (visibility filter, query decorator, envelope
// annotator, post-load processor). The produced handlers build an exact-match
// query from path and query-string parameters, run the store operation, and
// shape the outcome into the HTTP response.
//
//	svc := mapper.New(store)
//	r.GET("/users/:org", svc.Get(mapper.Options{
//		Collection:          "users",
//		OptionalQueryFields: []string{"role"},
//	}))
//
// The Auto factory defers the operation choice to route-registration time:
// it returns a Binding that the registration layer resolves by HTTP method.
package mapper
