// Package commands implements the localkms CLI.
//
// Commands operate on one store file selected by flags or a YAML config
// sidecar: init creates it, add/get/latest/list/rm manage key material, info
// reports store state. Encrypted stores take their key from a hex flag or a
// passphrase stretched with the salt recorded at init.
package commands
