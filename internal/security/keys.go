package security

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Keys are the independent secrets derived from the configured SECRET_KEY
type Keys struct {
	CSRF    []byte
	Sealing []byte
}

// DeriveKeys expands one master secret into purpose-bound keys
func DeriveKeys(master string) (*Keys, error) {
	if master == "" {
		return nil, fmt.Errorf("secret key is required")
	}

	csrf, err := expand(master, "codeassess csrf", 32)
	if err != nil {
		return nil, err
	}
	sealing, err := expand(master, "codeassess token sealing", 32)
	if err != nil {
		return nil, err
	}
	return &Keys{CSRF: csrf, Sealing: sealing}, nil
}

func expand(master, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(master), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return key, nil
}
