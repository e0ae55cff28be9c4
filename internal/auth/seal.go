package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceLength = 24

	// Prevent abuse from absurdly long passwords. Generous enough for
	// any legitimate credential.
	maxPasswordLength = 1024
)

// Sealer seals and opens portal credentials with a fixed symmetric key.
type Sealer struct {
	key [keyLength]byte
}

// NewSealer creates a sealer from a 32-byte key, typically obtained
// from LoadOrGenerateKey.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", keyLength, len(key))
	}
	s := &Sealer{}
	copy(s.key[:], key)
	return s, nil
}

// Seal encrypts a plaintext credential. The random nonce is prepended to
// the returned ciphertext so Open needs no extra state.
func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, errors.New("credential cannot be empty")
	}
	if len(plaintext) > maxPasswordLength {
		return nil, errors.New("credential exceeds maximum length")
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key), nil
}

// Open decrypts a credential previously produced by Seal.
func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) < nonceLength {
		return "", errors.New("sealed credential too short")
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])

	plaintext, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, &s.key)
	if !ok {
		return "", errors.New("failed to open sealed credential")
	}
	return string(plaintext), nil
}
