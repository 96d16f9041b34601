package app

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"localkms/internal/cryptobox"
	"localkms/internal/kdf"
)

// Format selects the persistence adapter variant.
type Format string

const (
	FormatBinary    Format = "binary"
	FormatJSON      Format = "json"
	FormatEncrypted Format = "encrypted"
	FormatSQLite    Format = "sqlite"
)

// Config selects the adapter variant, backing path and key material. For the
// encrypted variant either a raw hex key or a passphrase salt is configured;
// the passphrase itself is never stored.
type Config struct {
	Path    string `yaml:"path"`
	Format  Format `yaml:"format"`
	KeyHex  string `yaml:"key,omitempty"`
	SaltHex string `yaml:"salt,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{Path: "localkms.store", Format: FormatEncrypted}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// WriteFile persists the configuration as YAML.
func (c Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "write config")
}

// Validate checks the variant and key material shape.
func (c Config) Validate() error {
	switch c.Format {
	case FormatBinary, FormatJSON, FormatEncrypted, FormatSQLite:
	default:
		return fmt.Errorf("unknown store format %q", c.Format)
	}
	if c.Path == "" {
		return fmt.Errorf("store path is empty")
	}
	if c.KeyHex != "" {
		if _, err := c.rawKey(); err != nil {
			return err
		}
	}
	if c.SaltHex != "" {
		salt, err := hex.DecodeString(c.SaltHex)
		if err != nil || len(salt) != kdf.SaltSize {
			return fmt.Errorf("salt must be %d hex-encoded bytes", kdf.SaltSize)
		}
	}
	return nil
}

// ResolveKey produces the cryptobox key for the encrypted variant, either
// directly from the configured hex key or by stretching passphrase with the
// configured salt.
func (c Config) ResolveKey(passphrase []byte) (cryptobox.Key, error) {
	if c.KeyHex != "" {
		return c.rawKey()
	}
	if c.SaltHex == "" {
		return cryptobox.Key{}, fmt.Errorf("no key material configured: set key or salt")
	}
	if len(passphrase) == 0 {
		return cryptobox.Key{}, fmt.Errorf("passphrase required")
	}
	salt, err := hex.DecodeString(c.SaltHex)
	if err != nil {
		return cryptobox.Key{}, errors.Wrap(err, "decode salt")
	}
	return kdf.DeriveKey(passphrase, salt)
}

func (c Config) rawKey() (cryptobox.Key, error) {
	raw, err := hex.DecodeString(c.KeyHex)
	if err != nil {
		return cryptobox.Key{}, errors.Wrap(err, "decode key")
	}
	return cryptobox.KeyFromBytes(raw)
}
