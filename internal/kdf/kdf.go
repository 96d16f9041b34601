// Package kdf derives cryptobox keys from passphrases with Argon2id. The
// core never sees passphrases; this sits in front of it for the CLI, with the
// salt kept alongside the caller's configuration.
package kdf

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	"localkms/internal/cryptobox"
	"localkms/internal/util/memzero"
)

// SaltSize is the salt length in bytes.
const SaltSize = 16

// Argon2id parameters for interactive use.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
)

// NewSalt draws a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("kdf: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches passphrase and salt into a cryptobox key. The
// intermediate buffer is wiped before returning.
func DeriveKey(passphrase []byte, salt []byte) (cryptobox.Key, error) {
	if len(salt) != SaltSize {
		return cryptobox.Key{}, fmt.Errorf("kdf: salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	raw := argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, cryptobox.KeySize)
	key, err := cryptobox.KeyFromBytes(raw)
	memzero.Zero(raw)
	return key, err
}
