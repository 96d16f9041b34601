package domain

// Manager is the read contract any key backend satisfies, local or remote.
type Manager interface {
	// Get returns an independent copy of the key at version.
	Get(version uint64) (Key, error)

	// Latest returns the key with the highest version currently present.
	Latest() (Key, error)
}

// MutManager extends Manager with mutation. Create assigns and returns the
// next version; Delete retires a version permanently (the identifier is never
// reassigned).
type MutManager interface {
	Manager

	Create(key Key) (uint64, error)
	Delete(version uint64) (Key, error)
}
