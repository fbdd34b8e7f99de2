// Package platform hides the per-OS differences of the tool behind
// PlatformOps: where the editor keeps its files, and how to find and stop
// its process.
package platform

import (
	"context"
	"fmt"

	"github.com/graaaaa/machineid-reset/internal/config"
)

// PlatformOps is selected once at startup; callers never branch on the OS.
type PlatformOps interface {
	// Name returns the GOOS spelling of the platform.
	Name() string

	// ResolvePaths returns the editor's file locations.
	ResolvePaths() (config.SystemPaths, error)

	// IsProcessRunning reports whether the editor appears to be running.
	// Any failure to run the listing command counts as not running.
	IsProcessRunning(ctx context.Context) bool

	// TerminateProcess asks the editor to exit. Best-effort.
	TerminateProcess(ctx context.Context) error
}

// Option configures a PlatformOps.
type Option func(*base)

// WithRunner sets the command runner.
func WithRunner(r Runner) Option {
	return func(b *base) {
		b.runner = r
	}
}

// WithConfig sets the config whose overrides apply.
func WithConfig(cfg config.Config) Option {
	return func(b *base) {
		b.cfg = cfg
	}
}

// WithEnv sets the environment used to expand path templates.
func WithEnv(env config.Env) Option {
	return func(b *base) {
		b.env = env
	}
}

// For returns the PlatformOps for o.
func For(o config.OS, opts ...Option) (PlatformOps, error) {
	b := base{
		os:     o,
		cfg:    config.DefaultConfig(),
		env:    config.HostEnv(),
		runner: ExecRunner{},
	}
	for _, opt := range opts {
		opt(&b)
	}

	switch o {
	case config.Windows:
		return &windowsOps{base: b}, nil
	case config.MacOS:
		return &darwinOps{pgrepOps{base: b, defaultPattern: darwinPattern}}, nil
	case config.Linux:
		return &linuxOps{pgrepOps{base: b, defaultPattern: linuxPattern}}, nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedOS, o)
}

// Host returns the PlatformOps for the running OS.
func Host(goos string, opts ...Option) (PlatformOps, error) {
	o, err := config.ParseOS(goos)
	if err != nil {
		return nil, err
	}
	return For(o, opts...)
}

// base holds what every platform variant shares.
type base struct {
	os     config.OS
	cfg    config.Config
	env    config.Env
	runner Runner
}

func (b *base) Name() string {
	return b.os.String()
}

func (b *base) ResolvePaths() (config.SystemPaths, error) {
	return b.cfg.SystemPaths(b.os, b.env)
}

// processName returns the configured override or def.
func (b *base) processName(def string) string {
	if b.cfg.ProcessName != "" {
		return b.cfg.ProcessName
	}
	return def
}
