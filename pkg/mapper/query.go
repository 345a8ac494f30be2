package mapper

import (
	"fmt"

	"github.com/mongomap/mongomap/pkg/server/router"
)

// MissingFieldError reports a declared required query field absent or empty
// in the request's query string.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required query field %q", e.Field)
}

// BuildQuery derives an exact-match query from the request.
//
// Every path parameter becomes a constraint unconditionally. Every name in
// required must have a non-empty query-string value or the build fails with
// a *MissingFieldError before any store call. Names in optional are added
// only when non-empty; absent values are silently skipped.
func BuildQuery(c router.Context, required, optional []string) (Query, error) {
	q := Query{}

	for name, value := range c.Params() {
		q[name] = value
	}

	for _, name := range required {
		value := c.Query(name)
		if value == "" {
			return nil, &MissingFieldError{Field: name}
		}
		q[name] = value
	}

	for _, name := range optional {
		if value := c.Query(name); value != "" {
			q[name] = value
		}
	}

	return q, nil
}
