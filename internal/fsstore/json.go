package fsstore

import (
	"os"

	"github.com/pkg/errors"

	"localkms/internal/codec"
	"localkms/internal/keystore"
)

// JSON persists the store in the textual encoding.
type JSON struct {
	*keystore.Store
	path string
}

// NewJSON wraps an existing store. Nothing is written until Save.
func NewJSON(store *keystore.Store, path string) *JSON {
	return &JSON{Store: store, path: path}
}

// LoadJSON reads and decodes the file at opts.Path into a fresh store.
func LoadJSON(opts Options) (*JSON, error) {
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "read store file")
	}
	snap, err := codec.JSON{}.Decode(data)
	if err != nil {
		return nil, err
	}
	return &JSON{Store: keystore.FromSnapshot(snap), path: opts.Path}, nil
}

// Save encodes the current snapshot and replaces the backing file.
func (j *JSON) Save() error {
	snap, err := j.Snapshot()
	if err != nil {
		return err
	}
	data, err := codec.JSON{}.Encode(snap)
	if err != nil {
		return err
	}
	return writeAtomic(j.path, data, 0o600)
}

// Path returns the backing file path.
func (j *JSON) Path() string { return j.path }

var _ Wrapper = (*JSON)(nil)
