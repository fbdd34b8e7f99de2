package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUndefinedVar is returned when a path template references an environment
// variable that is not set.
var ErrUndefinedVar = errors.New("undefined environment variable")

// PathTemplate holds unexpanded path templates. Templates may start with ~
// and may reference %VAR%, $VAR or ${VAR}.
type PathTemplate struct {
	StoragePath string `json:"storage_path"`
	SQLitePath  string `json:"sqlite_path"`
	AppPath     string `json:"app_path"`
}

// SystemPaths holds the resolved locations of the editor's files.
type SystemPaths struct {
	// StoragePath is the JSON settings file (storage.json).
	StoragePath string
	// SQLitePath is the embedded state database (state.vscdb).
	SQLitePath string
	// AppPath is the editor's install directory.
	AppPath string
}

// DefaultTemplate returns the built-in template for the platform.
func DefaultTemplate(o OS) (PathTemplate, error) {
	switch o {
	case Windows:
		return PathTemplate{
			StoragePath: `%APPDATA%\Cursor\User\globalStorage\storage.json`,
			SQLitePath:  `%APPDATA%\Cursor\User\globalStorage\state.vscdb`,
			AppPath:     `%LOCALAPPDATA%\Programs\Cursor\resources\app`,
		}, nil
	case MacOS:
		return PathTemplate{
			StoragePath: "~/Library/Application Support/Cursor/User/globalStorage/storage.json",
			SQLitePath:  "~/Library/Application Support/Cursor/User/globalStorage/state.vscdb",
			AppPath:     "/Applications/Cursor.app/Contents/Resources/app",
		}, nil
	case Linux:
		return PathTemplate{
			StoragePath: "~/.config/cursor/User/globalStorage/storage.json",
			SQLitePath:  "~/.config/cursor/User/globalStorage/state.vscdb",
			AppPath:     "/usr/share/cursor/resources/app",
		}, nil
	}
	return PathTemplate{}, fmt.Errorf("%w: %s", ErrUnsupportedOS, o)
}

// merge returns t with every non-empty field of override applied.
func (t PathTemplate) merge(override PathTemplate) PathTemplate {
	if override.StoragePath != "" {
		t.StoragePath = override.StoragePath
	}
	if override.SQLitePath != "" {
		t.SQLitePath = override.SQLitePath
	}
	if override.AppPath != "" {
		t.AppPath = override.AppPath
	}
	return t
}

// Env supplies the environment used for template expansion.
type Env struct {
	LookupEnv func(key string) (string, bool)
	HomeDir   func() (string, error)
}

// HostEnv returns an Env backed by the process environment.
func HostEnv() Env {
	return Env{LookupEnv: os.LookupEnv, HomeDir: os.UserHomeDir}
}

// Resolve expands every template field into a SystemPaths.
func Resolve(tmpl PathTemplate, env Env) (SystemPaths, error) {
	var paths SystemPaths
	var err error

	if paths.StoragePath, err = expand(tmpl.StoragePath, env); err != nil {
		return SystemPaths{}, fmt.Errorf("storage path: %w", err)
	}
	if paths.SQLitePath, err = expand(tmpl.SQLitePath, env); err != nil {
		return SystemPaths{}, fmt.Errorf("sqlite path: %w", err)
	}
	if paths.AppPath, err = expand(tmpl.AppPath, env); err != nil {
		return SystemPaths{}, fmt.Errorf("app path: %w", err)
	}
	return paths, nil
}

func expand(tmpl string, env Env) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", errors.New("empty path template")
	}

	home, rest, err := splitHome(tmpl, env)
	if err != nil {
		return "", err
	}

	var missing []string
	lookup := func(name string) string {
		v, ok := env.LookupEnv(name)
		if !ok || v == "" {
			missing = append(missing, name)
		}
		return v
	}

	s := home + expandVars(rest, lookup)
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUndefinedVar, strings.Join(missing, ", "))
	}
	return s, nil
}

// expandVars replaces %NAME%, ${NAME} and $NAME in a single pass over s.
// Substituted values are copied as is and never scanned again.
// Anything that does not form a reference is kept literally.
func expandVars(s string, lookup func(string) string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch s[i] {
		case '%':
			if end := strings.IndexByte(s[i+1:], '%'); end > 0 {
				name := s[i+1 : i+1+end]
				if isVarName(name, true) {
					b.WriteString(lookup(name))
					i += end + 2
					continue
				}
			}
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				if end := strings.IndexByte(s[i+2:], '}'); end > 0 {
					name := s[i+2 : i+2+end]
					if isVarName(name, false) {
						b.WriteString(lookup(name))
						i += end + 3
						continue
					}
				}
				break
			}
			j := i + 1
			for j < len(s) && isNameByte(s[j], j > i+1) {
				j++
			}
			if j > i+1 {
				b.WriteString(lookup(s[i+1 : j]))
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// isVarName reports whether name is a variable name. Windows names such as
// ProgramFiles(x86) may carry parentheses.
func isVarName(name string, parens bool) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isNameByte(c, i > 0) || (parens && i > 0 && (c == '(' || c == ')')) {
			continue
		}
		return false
	}
	return name != ""
}

func isNameByte(c byte, digitOK bool) bool {
	return c == '_' || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') ||
		(digitOK && '0' <= c && c <= '9')
}

// splitHome resolves a leading ~ and returns the home directory and the rest
// of the template. ~user forms are left alone.
func splitHome(s string, env Env) (home, rest string, err error) {
	if s != "~" && !strings.HasPrefix(s, "~/") && !strings.HasPrefix(s, `~\`) {
		return "", s, nil
	}
	home, err = env.HomeDir()
	if err != nil {
		return "", "", fmt.Errorf("home directory: %w", err)
	}
	if home == "" {
		return "", "", errors.New("home directory is empty")
	}
	return home, s[1:], nil
}
