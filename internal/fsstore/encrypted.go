package fsstore

import (
	"os"

	"github.com/pkg/errors"

	"localkms/internal/codec"
	"localkms/internal/cryptobox"
	"localkms/internal/keystore"
)

// Encrypted persists the store as a cryptobox blob over the binary encoding.
// The key lives only in memory; the file holds nonce ‖ ciphertext ‖ tag.
type Encrypted struct {
	*keystore.Store
	path string
	key  cryptobox.Key
}

// NewEncrypted wraps an existing store. Nothing is written until Save.
func NewEncrypted(store *keystore.Store, path string, key cryptobox.Key) *Encrypted {
	return &Encrypted{Store: store, path: path, key: key}
}

// LoadEncrypted reads the file at opts.Path, opens it with opts.Key and
// decodes the plaintext into a fresh store.
func LoadEncrypted(opts Options) (*Encrypted, error) {
	blob, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "read store file")
	}
	plaintext, err := cryptobox.Open(opts.Key, blob)
	if err != nil {
		return nil, err
	}
	snap, err := codec.Binary{}.Decode(plaintext)
	if err != nil {
		return nil, err
	}
	return &Encrypted{
		Store: keystore.FromSnapshot(snap),
		path:  opts.Path,
		key:   opts.Key,
	}, nil
}

// Save encodes the current snapshot, seals it and replaces the backing file.
func (e *Encrypted) Save() error {
	snap, err := e.Snapshot()
	if err != nil {
		return err
	}
	plaintext, err := codec.Binary{}.Encode(snap)
	if err != nil {
		return err
	}
	blob, err := cryptobox.Seal(e.key, plaintext)
	if err != nil {
		return err
	}
	return writeAtomic(e.path, blob, 0o600)
}

// Path returns the backing file path.
func (e *Encrypted) Path() string { return e.path }

var _ Wrapper = (*Encrypted)(nil)
