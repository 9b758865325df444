package store

import (
	"context"
	"fmt"
	"sync"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryStore is an in-memory implementation of schema.Store. When
// created with a passphrase, values are encrypted in memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	sealer *sealer
	values map[string][]byte
}

var _ schema.Store = (*MemoryStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryStore creates an empty store. An empty passphrase disables
// encryption.
func NewMemoryStore(passphrase string) (*MemoryStore, error) {
	sealer, err := newSealer(passphrase)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		sealer: sealer,
		values: make(map[string][]byte),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns the value stored for key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	blob, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return "", chat.ErrNotFound.Withf("%q", key)
	}

	value, err := s.sealer.open(blob)
	if err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return chat.ErrBadParameter.With("key is required")
	}
	blob, err := s.sealer.seal(value)
	if err != nil {
		return fmt.Errorf("%q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = blob
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len returns the number of keys held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
