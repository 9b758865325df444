package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"strings"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	argon2 "golang.org/x/crypto/argon2"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// sealer encrypts values at rest with AES-256-GCM under a key derived
// from a passphrase with Argon2id. A nil sealer stores values as-is.
type sealer struct {
	passphrase string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Argon2id parameters (OWASP recommended minimums)
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32

	// SaltSize is the length of the random salt prefixed to every sealed value.
	SaltSize = 16

	// MinPassphraseLen is the minimum acceptable passphrase length.
	MinPassphraseLen = 8
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// newSealer returns nil when passphrase is empty, so values are stored
// in the clear. A non-empty passphrase must be at least MinPassphraseLen
// characters, ignoring surrounding whitespace.
func newSealer(passphrase string) (*sealer, error) {
	if passphrase == "" {
		return nil, nil
	}
	if trimmed := strings.TrimSpace(passphrase); trimmed == "" {
		return nil, chat.ErrBadParameter.With("passphrase must not be blank")
	} else if len(trimmed) < MinPassphraseLen {
		return nil, chat.ErrBadParameter.Withf("passphrase must be at least %d characters", MinPassphraseLen)
	}
	return &sealer{passphrase: passphrase}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// seal returns salt || nonce || ciphertext+tag.
func (s *sealer) seal(value string) ([]byte, error) {
	if s == nil {
		return []byte(value), nil
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	return gcm.Seal(append(salt, nonce...), nonce, []byte(value), nil), nil
}

// open reverses seal.
func (s *sealer) open(blob []byte) (string, error) {
	if s == nil {
		return string(blob), nil
	}
	if len(blob) < SaltSize {
		return "", fmt.Errorf("open: data too short")
	}

	salt, rest := blob[:SaltSize], blob[SaltSize:]
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("open: ciphertext too short")
	}
	nonce, data := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plaintext), nil
}

func (s *sealer) gcm(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(s.passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return gcm, nil
}
