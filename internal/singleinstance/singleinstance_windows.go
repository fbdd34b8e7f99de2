//go:build windows

// Package singleinstance keeps two copies of the tool from rewriting the
// same files at once.
package singleinstance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

// AcquireLock claims the named mutex appinfo.MutexName for this logon
// session. lockPath is not used: a named mutex needs no file and disappears
// with the last handle, so a crashed run never leaves a stale lock.
//
// ok is false when another running copy already owns the mutex.
func AcquireLock(lockPath string) (release func(), ok bool, err error) {
	name, err := windows.UTF16PtrFromString(appinfo.MutexName)
	if err != nil {
		return nil, false, fmt.Errorf("mutex name: %w", err)
	}

	h, err := windows.CreateMutex(nil, false, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		// CreateMutex still hands back a handle to the existing mutex
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create mutex %s: %w", appinfo.MutexName, err)
	}

	return func() { windows.CloseHandle(h) }, true, nil
}
