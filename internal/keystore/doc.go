// Package keystore implements the in-memory versioned key store.
//
// A Store is an ordered mapping from version to key record plus an
// independent counter of the highest version ever issued. Versions are
// assigned monotonically at insert time and never reused, including after
// deletion. All operations are safe for concurrent use from multiple
// goroutines.
//
// Lock discipline: the counter mutex is always acquired before the mapping
// lock, never the other way around. Update serialises on the counter mutex,
// inserts under the mapping lock, then commits the counter, so two concurrent
// updates can never compute the same candidate version and a reader can never
// observe a counter value whose entry is missing.
//
// A panic raised while a lock is held poisons the store: every subsequent
// operation fails with ErrPoisoned. A poisoned store is unrecoverable and
// must be discarded, typically by reloading from a persisted snapshot.
package keystore
