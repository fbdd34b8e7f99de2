//go:build windows

package settings

import (
	"golang.org/x/sys/windows"
)

// checkReadWrite opens path for reading and writing without modifying it.
// Windows has no access(2); the read-only attribute and ACLs are both
// enforced by CreateFile.
func checkReadWrite(path string) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	h, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return err
	}
	return windows.CloseHandle(h)
}
