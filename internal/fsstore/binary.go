package fsstore

import (
	"os"

	"github.com/pkg/errors"

	"localkms/internal/codec"
	"localkms/internal/keystore"
)

// Binary persists the store in the compact binary encoding.
type Binary struct {
	*keystore.Store
	path string
}

// NewBinary wraps an existing store. Nothing is written until Save.
func NewBinary(store *keystore.Store, path string) *Binary {
	return &Binary{Store: store, path: path}
}

// LoadBinary reads and decodes the file at opts.Path into a fresh store.
func LoadBinary(opts Options) (*Binary, error) {
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "read store file")
	}
	snap, err := codec.Binary{}.Decode(data)
	if err != nil {
		return nil, err
	}
	return &Binary{Store: keystore.FromSnapshot(snap), path: opts.Path}, nil
}

// Save encodes the current snapshot and replaces the backing file.
func (b *Binary) Save() error {
	snap, err := b.Snapshot()
	if err != nil {
		return err
	}
	data, err := codec.Binary{}.Encode(snap)
	if err != nil {
		return err
	}
	return writeAtomic(b.path, data, 0o600)
}

// Path returns the backing file path.
func (b *Binary) Path() string { return b.path }

var _ Wrapper = (*Binary)(nil)
