// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, HTTP response
// writing, HTTP client initialization, session token generation and
// validation, and session identifiers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SessionIDCtxKey is the key used to store the game session identifier in
// the context.
var SessionIDCtxKey = contextKey("sessionID")

// WithSessionID returns a copy of ctx carrying the session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDCtxKey, id)
}

// GetSessionIDFromContext retrieves the session identifier from the context.
//
// Returns ok == false when the value is missing or is not a string.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDCtxKey).(string)
	return id, ok
}
