package schema

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store is the persistent key-value storage the client keeps its
// credential and session identity in.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores (or replaces) the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// TokenKey holds the bearer credential.
	TokenKey = "token"

	// UserKey holds the JSON-encoded session identity.
	UserKey = "user"

	// LoginPath is passed to the session-expired notifier.
	LoginPath = "/login"
)
