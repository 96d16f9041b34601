package keystore

import (
	"errors"
	"sync"
	"sync/atomic"

	"localkms/internal/domain"
)

var (
	// ErrPoisoned is returned by every operation after a panic escaped a
	// critical section. The store's state may be inconsistent; discard it.
	ErrPoisoned = errors.New("keystore: store poisoned")

	// ErrNotFound is returned when a version is not present, or when the
	// store is empty and a latest record was requested.
	ErrNotFound = errors.New("keystore: key not found")
)

// Store is a concurrency-safe, monotonically versioned collection of key
// records. The zero value is not usable; call New.
type Store struct {
	countMu sync.Mutex
	count   uint64

	mu      sync.RWMutex
	entries map[uint64]domain.Key

	poisoned atomic.Bool
}

// New returns an empty store with the version counter at zero.
func New() *Store {
	return &Store{entries: make(map[uint64]domain.Key)}
}

// FromSnapshot rebuilds a live store from a persisted snapshot. The snapshot
// counter is taken as authoritative.
func FromSnapshot(snap domain.Snapshot) *Store {
	entries := make(map[uint64]domain.Key, len(snap.Store))
	for version, rec := range snap.Store {
		entries[version] = rec.Key()
	}
	return &Store{count: snap.Count, entries: entries}
}

// Count returns the highest version ever issued. It is not decremented by
// Drop; it may exceed the highest version currently present.
func (s *Store) Count() (uint64, error) {
	if s.poisoned.Load() {
		return 0, ErrPoisoned
	}
	s.countMu.Lock()
	defer s.unlockCount()

	return s.count, nil
}

// Update inserts key under the next version and returns the version it was
// assigned. The counter is committed only after the insert, so a concurrent
// reader never sees a counter value without its entry.
func (s *Store) Update(key domain.Key) (uint64, error) {
	if s.poisoned.Load() {
		return 0, ErrPoisoned
	}
	s.countMu.Lock()
	defer s.unlockCount()

	version := s.count + 1
	s.insert(version, key)
	s.count = version

	return version, nil
}

// insert adds the entry under the mapping lock. Caller holds the counter
// mutex; this is the only place both locks are held and fixes the order.
func (s *Store) insert(version uint64, key domain.Key) {
	s.mu.Lock()
	defer s.unlockWrite()

	s.entries[version] = key
}

// Drop removes and returns the record at version. The counter is untouched;
// a dropped version is permanently retired.
func (s *Store) Drop(version uint64) (domain.Key, error) {
	if s.poisoned.Load() {
		return domain.Key{}, ErrPoisoned
	}
	s.mu.Lock()
	defer s.unlockWrite()

	key, ok := s.entries[version]
	if !ok {
		return domain.Key{}, ErrNotFound
	}
	delete(s.entries, version)

	return key, nil
}

// Get returns an independent copy of the record at version.
func (s *Store) Get(version uint64) (domain.Key, error) {
	if s.poisoned.Load() {
		return domain.Key{}, ErrPoisoned
	}
	s.mu.RLock()
	defer s.unlockRead()

	key, ok := s.entries[version]
	if !ok {
		return domain.Key{}, ErrNotFound
	}
	return key.Clone(), nil
}

// GetVersioned is Get plus the version, for callers holding only a candidate
// version.
func (s *Store) GetVersioned(version uint64) (domain.VersionedKey, error) {
	key, err := s.Get(version)
	if err != nil {
		return domain.VersionedKey{}, err
	}
	return domain.VersionedKey{Version: version, Key: key}, nil
}

// Latest returns the record with the highest version currently present,
// which may be lower than Count if the newest record was dropped.
func (s *Store) Latest() (domain.Key, error) {
	vk, err := s.LatestVersioned()
	if err != nil {
		return domain.Key{}, err
	}
	return vk.Key, nil
}

// LatestVersioned returns the highest present version and its record.
func (s *Store) LatestVersioned() (domain.VersionedKey, error) {
	if s.poisoned.Load() {
		return domain.VersionedKey{}, ErrPoisoned
	}
	s.mu.RLock()
	defer s.unlockRead()

	var (
		max   uint64
		found bool
	)
	for version := range s.entries {
		if !found || version > max {
			max = version
			found = true
		}
	}
	if !found {
		return domain.VersionedKey{}, ErrNotFound
	}
	return domain.VersionedKey{Version: max, Key: s.entries[max].Clone()}, nil
}

// Range calls fn for every present (version, record) pair under a shared
// lock, without cloning payloads. Iteration stops when fn returns false. The
// lock is released when Range returns; fn must not call back into the store.
func (s *Store) Range(fn func(version uint64, key domain.Key) bool) error {
	if s.poisoned.Load() {
		return ErrPoisoned
	}
	s.mu.RLock()
	defer s.unlockRead()

	for version, key := range s.entries {
		if !fn(version, key) {
			return nil
		}
	}
	return nil
}

// Len returns the number of records currently present.
func (s *Store) Len() (int, error) {
	if s.poisoned.Load() {
		return 0, ErrPoisoned
	}
	s.mu.RLock()
	defer s.unlockRead()

	return len(s.entries), nil
}

// Snapshot captures the store as a plain wire value. Both locks are taken in
// the same order as Update so the counter and mapping are mutually
// consistent.
func (s *Store) Snapshot() (domain.Snapshot, error) {
	if s.poisoned.Load() {
		return domain.Snapshot{}, ErrPoisoned
	}
	s.countMu.Lock()
	defer s.unlockCount()
	s.mu.RLock()
	defer s.unlockRead()

	snap := domain.Snapshot{
		Count: s.count,
		Store: make(map[uint64]domain.KeyRecord, len(s.entries)),
	}
	for version, key := range s.entries {
		snap.Store[version] = key.Record()
	}
	return snap, nil
}

// Create implements domain.MutManager.
func (s *Store) Create(key domain.Key) (uint64, error) { return s.Update(key) }

// Delete implements domain.MutManager.
func (s *Store) Delete(version uint64) (domain.Key, error) { return s.Drop(version) }

// unlockCount releases the counter mutex, poisoning the store first if a
// panic is unwinding through the critical section.
func (s *Store) unlockCount() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		s.countMu.Unlock()
		panic(r)
	}
	s.countMu.Unlock()
}

func (s *Store) unlockWrite() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		s.mu.Unlock()
		panic(r)
	}
	s.mu.Unlock()
}

func (s *Store) unlockRead() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		s.mu.RUnlock()
		panic(r)
	}
	s.mu.RUnlock()
}

// Compile-time assertion that Store satisfies the manager contracts.
var (
	_ domain.Manager    = (*Store)(nil)
	_ domain.MutManager = (*Store)(nil)
)
