package config

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOS is returned for hosts other than Windows, macOS and Linux.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// OS identifies one of the supported host platforms.
type OS int

const (
	Windows OS = iota + 1
	MacOS
	Linux
)

// SupportedOS lists every platform with a built-in path template.
var SupportedOS = []OS{Windows, MacOS, Linux}

// ParseOS maps a runtime.GOOS value to an OS.
func ParseOS(goos string) (OS, error) {
	switch goos {
	case "windows":
		return Windows, nil
	case "darwin":
		return MacOS, nil
	case "linux":
		return Linux, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}

// String returns the GOOS spelling of the platform.
func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	case MacOS:
		return "darwin"
	case Linux:
		return "linux"
	}
	return fmt.Sprintf("OS(%d)", int(o))
}
