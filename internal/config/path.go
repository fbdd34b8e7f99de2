// Package config resolves where the editor keeps its identity files and
// where this tool keeps its own data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

// DataDir returns the directory where the tool keeps config.json and its
// lock file. It is separate from the editor's own directories:
// %LOCALAPPDATA%\machineid-reset on Windows, os.UserConfigDir()/machineid-reset
// elsewhere (XDG_CONFIG_HOME or ~/.config on Linux, ~/Library/Application
// Support on macOS).
func DataDir() (string, error) {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appinfo.DirName), nil
		}
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate data dir: %w", err)
	}
	return filepath.Join(base, appinfo.DirName), nil
}

// EnsureDataDir creates DataDir with owner-only permissions and returns it.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create data dir %q: %w", dir, err)
	}

	return dir, nil
}

// dataPath joins filename onto DataDir.
func dataPath(filename string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// ConfigPath returns the path to the optional config.json override file.
func ConfigPath() (string, error) {
	return dataPath(appinfo.ConfigFileName)
}

// LockFilePath returns the flock target used on Unix to refuse a second
// concurrent run. Windows uses a named mutex instead.
func LockFilePath() (string, error) {
	return dataPath(appinfo.LockFileName)
}
