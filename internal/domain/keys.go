package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Key is a single piece of key material together with its creation time.
// A Key is immutable once built: the constructor copies the payload in and
// every accessor copies it back out.
type Key struct {
	data    []byte
	created uint64
}

// NewKeyAt builds a key with an explicit creation timestamp (seconds since
// the Unix epoch).
func NewKeyAt(data []byte, created uint64) Key {
	return Key{
		data:    append([]byte(nil), data...),
		created: created,
	}
}

// Data returns a copy of the key material.
func (k Key) Data() []byte { return append([]byte(nil), k.data...) }

// Created returns the creation timestamp in seconds since the Unix epoch.
func (k Key) Created() uint64 { return k.created }

// Len returns the payload length in bytes.
func (k Key) Len() int { return len(k.data) }

// Clone returns an independent deep copy of the key.
func (k Key) Clone() Key {
	return Key{
		data:    append([]byte(nil), k.data...),
		created: k.created,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("Key{%d bytes, created %d}", len(k.data), k.created)
}

// VersionedKey pairs a key record with the version the store assigned to it.
// It is a read-only copy, not a reference into the store.
type VersionedKey struct {
	Version uint64
	Key     Key
}

// KeyBuilder assembles a Key, stamping the current time as the creation
// timestamp unless one is set explicitly.
type KeyBuilder struct {
	data    []byte
	created uint64
	stamped bool
}

// NewKeyBuilder starts a builder for the given payload.
func NewKeyBuilder(data []byte) *KeyBuilder {
	return &KeyBuilder{data: append([]byte(nil), data...)}
}

// RandomKeyBuilder starts a builder for size bytes of fresh random key
// material drawn from the operating system's secure source.
func RandomKeyBuilder(size int) (*KeyBuilder, error) {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("random key material: %w", err)
	}
	return &KeyBuilder{data: data}, nil
}

// SetCreated overrides the creation timestamp.
func (b *KeyBuilder) SetCreated(created uint64) {
	b.created = created
	b.stamped = true
}

// Build finalises the key. If no timestamp was set, the current time is used.
func (b *KeyBuilder) Build() Key {
	created := b.created
	if !b.stamped {
		created = uint64(time.Now().Unix())
	}
	return Key{data: b.data, created: created}
}
