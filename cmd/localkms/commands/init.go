package commands

import (
	"encoding/hex"
	"fmt"
	"unicode"

	"github.com/spf13/cobra"

	"localkms/internal/app"
	"localkms/internal/cryptobox"
	"localkms/internal/kdf"
	"localkms/internal/util/memzero"
)

const minPassphraseLength = 12

// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minPassphraseLength,
)

func initCmd() *cobra.Command {
	var allowWeak bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty store file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var key cryptobox.Key
			if cfg.Format == app.FormatEncrypted && cfg.KeyHex == "" {
				pass, err := readPassphrase("New passphrase: ")
				if err != nil {
					return err
				}
				defer memzero.Zero(pass)
				if !allowWeak && !isSecurePassphrase(string(pass)) {
					return ErrWeakPassphrase
				}

				salt, err := kdf.NewSalt()
				if err != nil {
					return err
				}
				cfg.SaltHex = hex.EncodeToString(salt)
				key, err = kdf.DeriveKey(pass, salt)
				if err != nil {
					return err
				}
			} else if cfg.Format == app.FormatEncrypted {
				k, err := cfg.ResolveKey(nil)
				if err != nil {
					return err
				}
				key = k
			}

			w, err := app.Create(cfg, key)
			if err != nil {
				return err
			}

			// The salt must survive for future key derivation, so the
			// config sidecar is written whenever one is in play.
			if cfg.SaltHex != "" || cfgPath != "" {
				path := cfgPath
				if path == "" {
					path = cfg.Path + ".yaml"
				}
				if err := cfg.WriteFile(path); err != nil {
					return err
				}
				fmt.Printf("Config written to %s\n", path)
			}

			fmt.Printf("Store created at %s (%s)\n", w.Path(), cfg.Format)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowWeak, "allow-weak-passphrase", false, "skip the passphrase strength check")
	return cmd
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
