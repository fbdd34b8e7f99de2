//go:build !windows

package fsutil

import (
	"os"
)

// WriteJSONAtomic writes v as indented JSON to path using the tmp->rename pattern.
// The destination is never left in a partial state.
// On POSIX systems, os.Rename atomically replaces the destination file.
func WriteJSONAtomic(path string, v any, indent string) error {
	tmpName, err := writeTemp(path, v, indent)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
