// Package fsstore persists a versioned key store to a single backing file.
//
// Three adapters are provided: Binary and JSON write the plain codec output,
// Encrypted seals the binary codec output with cryptobox before it touches
// disk. Every adapter owns exactly one store and one path, exposes the
// store's operations read-through, and persists only on an explicit Save.
//
// Saves write to a temporary file in the destination directory and rename it
// over the target, so a crash mid-write leaves the previous contents intact.
//
// No file-level locking is performed: pointing two adapters at the same path
// concurrently is the caller's responsibility to avoid.
package fsstore
