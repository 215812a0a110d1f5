package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrUnsealFailed means a sealed value was tampered with or sealed under
// another key.
var ErrUnsealFailed = errors.New("failed to unseal value")

// TokenSealer encrypts backend access tokens before they are written to
// the session store.
type TokenSealer struct {
	aead cipher.AEAD
}

// NewTokenSealer creates a sealer from a 32-byte key
func NewTokenSealer(key []byte) (*TokenSealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &TokenSealer{aead: aead}, nil
}

// Seal encrypts plaintext and returns it base64 encoded, nonce first
func (s *TokenSealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal
func (s *TokenSealer) Open(sealed string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrUnsealFailed
	}
	if len(data) < s.aead.NonceSize() {
		return "", ErrUnsealFailed
	}
	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrUnsealFailed
	}
	return string(plaintext), nil
}
