//go:build !windows

package settings

import "golang.org/x/sys/unix"

// checkReadWrite asks the kernel whether the real user may read and write path.
func checkReadWrite(path string) error {
	return unix.Access(path, unix.R_OK|unix.W_OK)
}
