// Package crypto provides the symmetric codec used to keep text content
// encrypted at rest. The key is derived once at startup from the process
// secret and is read-only afterwards, so a single codec is safe for any
// number of concurrent requests.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"datadocs/internal/domain"
)

// Codec encrypts and decrypts text payloads with XChaCha20-Poly1305.
// Encryption is randomized per call; the only guaranteed property is
// Decrypt(Encrypt(x)) == x.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key from the given secret. An empty secret
// is refused; callers treat that as a fatal startup condition.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is empty")
	}

	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("initialize cipher: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Encrypt seals plaintext into an opaque blob: random nonce followed by
// the ciphertext and auth tag.
func (c *Codec) Encrypt(plaintext string) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens a blob produced by Encrypt. A truncated or tampered blob
// (or one sealed under a rotated key) wraps domain.ErrDecode: fatal to
// the read being served, never to the process.
func (c *Codec) Decrypt(blob []byte) (string, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("ciphertext too short: %w", domain.ErrDecode)
	}

	nonce, ciphertext := blob[:chacha20poly1305.NonceSizeX], blob[chacha20poly1305.NonceSizeX:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt content: %w", domain.ErrDecode)
	}

	return string(plaintext), nil
}
