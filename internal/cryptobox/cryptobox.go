package cryptobox

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the fixed symmetric key length in bytes.
	KeySize = chacha20poly1305.KeySize

	// NonceSize is the XChaCha20-Poly1305 nonce length in bytes.
	NonceSize = chacha20poly1305.NonceSizeX

	// Overhead is the length of the trailing authentication tag.
	Overhead = chacha20poly1305.Overhead
)

var (
	// ErrInvalidEncoding is returned when a blob is too short to contain a
	// nonce. It indicates corruption or the wrong file format.
	ErrInvalidEncoding = errors.New("cryptobox: blob shorter than nonce")

	// ErrAuthentication is returned when the authentication tag does not
	// verify: tampering, the wrong key, or corruption. No plaintext is ever
	// returned alongside it.
	ErrAuthentication = errors.New("cryptobox: message authentication failed")

	// ErrRandomSource is returned when the secure random source fails while
	// drawing a nonce.
	ErrRandomSource = errors.New("cryptobox: secure random source failed")
)

// Key is a fixed 256-bit symmetric key, supplied by the caller out-of-band.
type Key [KeySize]byte

// KeyFromBytes copies b into a Key, rejecting wrong lengths.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("cryptobox: key must be %d bytes, got %d", KeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// Seal encrypts and authenticates plaintext under key with a fresh random
// nonce, returning nonce ‖ ciphertext ‖ tag as a single blob.
func Seal(key Key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	blob := make([]byte, NonceSize, NonceSize+len(plaintext)+Overhead)
	if _, err := rand.Read(blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return aead.Seal(blob, blob[:NonceSize], plaintext, nil), nil
}

// Open splits blob into nonce and ciphertext, then authenticates and
// decrypts under key.
func Open(key Key, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, ErrInvalidEncoding
	}
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
