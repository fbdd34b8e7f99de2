//go:build windows

package fsutil

import (
	"os"

	"golang.org/x/sys/windows"
)

// WriteJSONAtomic writes v as indented JSON to path using the tmp->MoveFileEx pattern.
// The destination is never left in a partial state.
// os.Rename fails on Windows when the destination exists, so MoveFileEx with
// MOVEFILE_REPLACE_EXISTING is used instead.
func WriteJSONAtomic(path string, v any, indent string) error {
	tmpName, err := writeTemp(path, v, indent)
	if err != nil {
		return err
	}

	src, err := windows.UTF16PtrFromString(tmpName)
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	dst, err := windows.UTF16PtrFromString(path)
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := windows.MoveFileEx(src, dst, windows.MOVEFILE_REPLACE_EXISTING); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
