// Package codec encodes and decodes store snapshots.
//
// Two stateless encodings are provided: a compact little-endian binary format
// and a textual JSON format. Both persist the snapshot counter before the
// entries and neither touches the live store's lock state; conversion to and
// from the plain snapshot value happens at the caller.
package codec
