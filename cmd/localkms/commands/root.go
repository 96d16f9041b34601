package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/howeyc/gopass"
	"github.com/spf13/cobra"

	"localkms/internal/app"
	"localkms/internal/cryptobox"
	"localkms/internal/fsstore"
	"localkms/internal/util/memzero"
)

var (
	cfgPath    string
	storePath  string
	format     string
	keyHex     string
	passphrase string

	cfg app.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:           "localkms",
		Short:         "Versioned key-material store backed by a single file",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = app.Default()

			path := cfgPath
			if path == "" && storePath != "" {
				if _, err := os.Stat(storePath + ".yaml"); err == nil {
					path = storePath + ".yaml"
				}
			}
			if path != "" {
				loaded, err := app.LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Flags override the config file.
			if storePath != "" {
				cfg.Path = storePath
			}
			if format != "" {
				cfg.Format = app.Format(format)
			}
			if keyHex != "" {
				cfg.KeyHex = keyHex
			}
			return cfg.Validate()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default <store>.yaml if present)")
	root.PersistentFlags().StringVarP(&storePath, "store", "s", "", "store file path")
	root.PersistentFlags().StringVarP(&format, "format", "f", "", "store format: binary, json, encrypted, sqlite")
	root.PersistentFlags().StringVar(&keyHex, "key", "", "hex-encoded 32-byte key (encrypted format)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase (encrypted format; prompted if empty)")

	root.AddCommand(initCmd(), addCmd(), getCmd(), latestCmd(), listCmd(), rmCmd(), infoCmd())
	return root.Execute()
}

// resolveKey obtains the cryptobox key for the encrypted format, prompting
// for a passphrase when neither a key nor a passphrase flag was given.
func resolveKey() (cryptobox.Key, error) {
	if cfg.KeyHex != "" {
		return cfg.ResolveKey(nil)
	}
	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return cryptobox.Key{}, err
	}
	defer memzero.Zero(pass)
	return cfg.ResolveKey(pass)
}

func readPassphrase(prompt string) ([]byte, error) {
	if passphrase != "" {
		return []byte(passphrase), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := gopass.GetPasswd()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return pass, nil
}

// openStore loads the configured store for a command, handing back a closer
// for backends that hold resources.
func openStore() (fsstore.Wrapper, func(), error) {
	var key cryptobox.Key
	if cfg.Format == app.FormatEncrypted {
		k, err := resolveKey()
		if err != nil {
			return nil, nil, err
		}
		key = k
	}
	w, err := app.Load(cfg, key)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := w.(io.Closer); ok {
			c.Close()
		}
	}
	return w, cleanup, nil
}
