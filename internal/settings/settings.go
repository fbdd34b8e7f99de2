// Package settings updates the editor's JSON settings file (storage.json).
// Every write is preceded by a timestamped backup of the previous content.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
	"github.com/graaaaa/machineid-reset/internal/fsutil"
)

// indent matches the layout the editor itself writes.
const indent = "    "

// File is the settings file at a fixed path.
type File struct {
	path string
	now  func() time.Time
}

// Option configures a File.
type Option func(*File)

// WithClock sets the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *File) {
		f.now = now
	}
}

// New returns a File for path.
func New(path string, opts ...Option) *File {
	f := &File{path: path, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the settings file path.
func (f *File) Path() string {
	return f.path
}

// Ensure creates the parent directory and, when the file is missing, an
// empty JSON object.
func (f *File) Ensure() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat settings: %w", err)
	}

	if err := os.WriteFile(f.path, []byte("{}"), 0644); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}

// CheckAccess reports ErrNotFound when the file is missing and ErrNoAccess
// when it cannot be both read and written.
func (f *File) CheckAccess() error {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return fmt.Errorf("stat settings: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNoAccess, f.path)
	}

	if err := checkReadWrite(f.path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoAccess, f.path, err)
	}
	return nil
}

// BackupPath returns the backup path for a timestamp.
func (f *File) BackupPath(t time.Time) string {
	return f.path + appinfo.BackupInfix + t.Format(appinfo.BackupTimeFormat)
}

// BackupAndUpdate copies the current file to a timestamped backup, then
// merges values into the JSON object and writes it back. Existing keys keep
// their position and new keys are appended.
// It returns the backup path.
func (f *File) BackupAndUpdate(values map[string]string) (string, error) {
	backup := f.BackupPath(f.now())
	if err := fsutil.CopyFile(f.path, backup); err != nil {
		return "", fmt.Errorf("backup settings: %w", err)
	}

	doc, err := f.load()
	if err != nil {
		return backup, err
	}
	if err := doc.setStrings(values); err != nil {
		return backup, fmt.Errorf("encode values: %w", err)
	}

	if err := fsutil.WriteJSONAtomic(f.path, doc, indent); err != nil {
		return backup, fmt.Errorf("write settings: %w", err)
	}
	return backup, nil
}

// load reads the settings object with its keys in file order.
func (f *File) load() (*document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return parseDocument(data)
}

// Backups lists existing backups of the file, oldest first.
func (f *File) Backups() ([]string, error) {
	dir := filepath.Dir(f.path)
	prefix := filepath.Base(f.path) + appinfo.BackupInfix

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if _, err := time.Parse(appinfo.BackupTimeFormat, strings.TrimPrefix(e.Name(), prefix)); err != nil {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	// The timestamp format sorts chronologically.
	sort.Strings(out)
	return out, nil
}
