package fsstore

import (
	"os"

	"github.com/pkg/errors"
)

// writeAtomic writes data via a temp file in the same directory, then renames
// it over path so readers never observe a partial write.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}
