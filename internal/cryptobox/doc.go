// Package cryptobox authenticates and encrypts opaque byte payloads with
// XChaCha20-Poly1305 under a caller-supplied 256-bit key.
//
// Every Seal draws a fresh 24-byte nonce from the operating system's secure
// random source and prepends it to the ciphertext, so nonce reuse under a
// fixed key cannot occur by construction. The package never derives, stores
// or rotates keys.
package cryptobox
