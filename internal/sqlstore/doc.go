// Package sqlstore persists a versioned key store in a single-file SQLite
// database. It satisfies the same adapter contract as the fsstore variants,
// demonstrating a swappable backend behind the manager interface.
package sqlstore
