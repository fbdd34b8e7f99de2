package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/graaaaa/machineid-reset/internal/fsutil"
)

// CurrentSchemaVersion is the current config schema version.
const CurrentSchemaVersion = 1

// Default settling delays around process termination.
const (
	DefaultGraceSeconds  = 10
	DefaultSettleSeconds = 2
)

// Environment variable names for config overrides.
// Priority: Environment > Config File > Default
const (
	EnvStoragePath   = "MACHINEID_RESET_STORAGE_PATH"
	EnvSQLitePath    = "MACHINEID_RESET_SQLITE_PATH"
	EnvAppPath       = "MACHINEID_RESET_APP_PATH"
	EnvProcessName   = "MACHINEID_RESET_PROCESS_NAME"
	EnvGraceSeconds  = "MACHINEID_RESET_GRACE_SEC"
	EnvSettleSeconds = "MACHINEID_RESET_SETTLE_SEC"
)

// Config holds optional overrides of the built-in defaults.
// Empty fields mean "use the default for the host platform".
type Config struct {
	SchemaVersion int          `json:"schema_version"`
	Paths         PathTemplate `json:"paths"`
	ProcessName   string       `json:"process_name"`
	GraceSeconds  int          `json:"grace_seconds"`
	SettleSeconds int          `json:"settle_seconds"`
}

// DefaultConfig returns a Config with no overrides.
func DefaultConfig() Config {
	return Config{
		SchemaVersion: CurrentSchemaVersion,
		GraceSeconds:  DefaultGraceSeconds,
		SettleSeconds: DefaultSettleSeconds,
	}
}

// LoadConfig reads the override file from the data directory. If the file
// doesn't exist or is corrupt, it returns DefaultConfig.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	return LoadConfigFrom(path)
}

// LoadConfigFrom reads config from the specified path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, use defaults (not an error)
			return cfg, nil
		}
		log.Printf("Warning: failed to read config file: %v, using defaults", err)
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		log.Printf("Warning: config file is corrupt: %v, using defaults", err)
		return DefaultConfig(), nil
	}

	if cfg.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: config schema version mismatch (got %d, expected %d), using defaults",
			cfg.SchemaVersion, CurrentSchemaVersion)
		return DefaultConfig(), nil
	}

	return normalizeConfig(cfg), nil
}

// normalizeConfig validates and normalizes config values.
func normalizeConfig(cfg Config) Config {
	cfg.SchemaVersion = CurrentSchemaVersion

	if cfg.GraceSeconds <= 0 {
		cfg.GraceSeconds = DefaultGraceSeconds
	}
	if cfg.SettleSeconds <= 0 {
		cfg.SettleSeconds = DefaultSettleSeconds
	}

	return cfg
}

// SaveConfigTo writes config to the specified path atomically.
func SaveConfigTo(cfg Config, path string) error {
	cfg.SchemaVersion = CurrentSchemaVersion

	return fsutil.WriteJSONAtomic(path, cfg, "  ")
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take highest priority over config file values.
func ApplyEnvOverrides(cfg Config) Config {
	if v := os.Getenv(EnvStoragePath); v != "" {
		cfg.Paths.StoragePath = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Paths.SQLitePath = v
	}
	if v := os.Getenv(EnvAppPath); v != "" {
		cfg.Paths.AppPath = v
	}
	if v := os.Getenv(EnvProcessName); v != "" {
		cfg.ProcessName = v
	}
	if v := os.Getenv(EnvGraceSeconds); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.GraceSeconds = sec
		}
	}
	if v := os.Getenv(EnvSettleSeconds); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.SettleSeconds = sec
		}
	}

	return cfg
}

// Template returns the built-in template for o with the configured path
// overrides applied.
func (c Config) Template(o OS) (PathTemplate, error) {
	tmpl, err := DefaultTemplate(o)
	if err != nil {
		return PathTemplate{}, err
	}
	return tmpl.merge(c.Paths), nil
}

// SystemPaths resolves the editor's file locations for o.
func (c Config) SystemPaths(o OS, env Env) (SystemPaths, error) {
	tmpl, err := c.Template(o)
	if err != nil {
		return SystemPaths{}, err
	}
	return Resolve(tmpl, env)
}

// Grace returns the grace window given before terminating the editor.
func (c Config) Grace() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// Settle returns the pause after terminating the editor.
func (c Config) Settle() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}
