package fsstore

import (
	"localkms/internal/cryptobox"
	"localkms/internal/domain"
)

// Options names the backing file and, for the Encrypted adapter, the
// symmetric key. The key is never embedded in the persisted bytes.
type Options struct {
	Path string
	Key  cryptobox.Key
}

// Wrapper binds one live store to one backing location. All store operations
// are available read-through so callers never need to unwrap the adapter.
type Wrapper interface {
	domain.MutManager

	Count() (uint64, error)
	Update(key domain.Key) (uint64, error)
	Drop(version uint64) (domain.Key, error)
	GetVersioned(version uint64) (domain.VersionedKey, error)
	LatestVersioned() (domain.VersionedKey, error)
	Range(fn func(version uint64, key domain.Key) bool) error
	Len() (int, error)

	// Save persists the current snapshot to the backing location.
	Save() error

	// Path names the backing location.
	Path() string
}
