package app

import (
	"fmt"

	"localkms/internal/cryptobox"
	"localkms/internal/fsstore"
	"localkms/internal/keystore"
	"localkms/internal/sqlstore"
)

// Load opens the backing location named by cfg and returns the populated
// adapter. The key is only consulted for the encrypted variant.
func Load(cfg Config, key cryptobox.Key) (fsstore.Wrapper, error) {
	switch cfg.Format {
	case FormatBinary:
		return fsstore.LoadBinary(fsstore.Options{Path: cfg.Path})
	case FormatJSON:
		return fsstore.LoadJSON(fsstore.Options{Path: cfg.Path})
	case FormatEncrypted:
		return fsstore.LoadEncrypted(fsstore.Options{Path: cfg.Path, Key: key})
	case FormatSQLite:
		return sqlstore.Load(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store format %q", cfg.Format)
	}
}

// Create wraps a fresh empty store in the configured adapter and saves it,
// establishing the backing file.
func Create(cfg Config, key cryptobox.Key) (fsstore.Wrapper, error) {
	store := keystore.New()

	var (
		w   fsstore.Wrapper
		err error
	)
	switch cfg.Format {
	case FormatBinary:
		w = fsstore.NewBinary(store, cfg.Path)
	case FormatJSON:
		w = fsstore.NewJSON(store, cfg.Path)
	case FormatEncrypted:
		w = fsstore.NewEncrypted(store, cfg.Path, key)
	case FormatSQLite:
		w, err = sqlstore.New(store, cfg.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store format %q", cfg.Format)
	}

	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}
