// Package app wires application dependencies for the CLI.
//
// It resolves the caller-supplied configuration (adapter variant, backing
// path, key material) into a concrete persistence adapter, exposing it behind
// the common wrapper contract for commands to use.
package app
