// Package middleware holds shared context keys for the gateway middleware.
package middleware

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for the request correlation ID.
	RequestIDKey ContextKey = "request_id"
)
