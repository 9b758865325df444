package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// FileStore is a filesystem-backed implementation of schema.Store. Each
// key is stored as a separate file in a directory, named by a SHA-256
// hash of the key. When created with a passphrase the file holds the
// sealed blob (salt || nonce || ciphertext), otherwise the raw value.
// It is safe for concurrent use within a process.
type FileStore struct {
	mu     sync.RWMutex
	sealer *sealer
	dir    string
}

var _ schema.Store = (*FileStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	valueExt             = ".bin"
	DirPerm  os.FileMode = 0o700 // Directory permission for store directories
	FilePerm os.FileMode = 0o600 // File permission for store files
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFileStore creates a store rooted at dir, creating the directory
// (with parents) if it does not already exist. An empty passphrase
// disables encryption.
func NewFileStore(dir, passphrase string) (*FileStore, error) {
	sealer, err := newSealer(passphrase)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, chat.ErrBadParameter.With("directory is required")
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return nil, chat.ErrInternal.Withf("mkdir: %v", err)
	}
	return &FileStore{
		sealer: sealer,
		dir:    dir,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get returns the value stored for key.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	blob, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return "", chat.ErrNotFound.Withf("%q", key)
		}
		return "", chat.ErrInternal.Withf("read %q: %v", key, err)
	}

	value, err := s.sealer.open(blob)
	if err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key. The file is written to a temporary name
// and renamed into place.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return chat.ErrBadParameter.With("key is required")
	}
	blob, err := s.sealer.seal(value)
	if err != nil {
		return fmt.Errorf("%q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, FilePerm); err != nil {
		return chat.ErrInternal.Withf("write %q: %v", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return chat.ErrInternal.Withf("write %q: %v", key, err)
	}
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return chat.ErrInternal.Withf("delete %q: %v", key, err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+valueExt)
}
