package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/graaaaa/machineid-reset/internal/config"
	"github.com/graaaaa/machineid-reset/internal/platform"
	"github.com/graaaaa/machineid-reset/internal/reset"
	"github.com/graaaaa/machineid-reset/internal/settings"
	"github.com/graaaaa/machineid-reset/internal/singleinstance"
)

var (
	errAlreadyRunning = errors.New("another instance is already running")
	errConfigExists   = errors.New("config file already exists")
)

type runOptions struct {
	configPath string
}

// loadConfig applies, in order of priority: environment, config file, defaults.
// A corrupt config file falls back to defaults with a warning.
func loadConfig(opts runOptions) config.Config {
	var cfg config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadConfigFrom(opts.configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	return config.ApplyEnvOverrides(cfg)
}

// hostPlatform selects the PlatformOps once for the running OS.
func hostPlatform(cfg config.Config) (platform.PlatformOps, config.SystemPaths, error) {
	ops, err := platform.Host(runtime.GOOS, platform.WithConfig(cfg))
	if err != nil {
		return nil, config.SystemPaths{}, err
	}
	paths, err := ops.ResolvePaths()
	if err != nil {
		return nil, config.SystemPaths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return ops, paths, nil
}

func run(ctx context.Context, opts runOptions, in io.Reader, out io.Writer) error {
	// 1. Load configuration
	cfg := loadConfig(opts)

	// 2. Select the platform and resolve the editor's files
	ops, paths, err := hostPlatform(cfg)
	if err != nil {
		return err
	}

	// 3. Single instance check
	if _, err := config.EnsureDataDir(); err != nil {
		return err
	}
	lockPath, err := config.LockFilePath()
	if err != nil {
		return err
	}
	release, ok, err := singleinstance.AcquireLock(lockPath)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errAlreadyRunning
	}
	defer release()

	// 4. Make sure the settings file exists
	st := settings.New(paths.StoragePath)
	if err := st.Ensure(); err != nil {
		return err
	}

	// 5. Walk the flow
	r := reset.New(ops, st, reset.SQLiteDatabase(paths.SQLitePath),
		reset.WithIO(in, out),
		reset.WithDelays(cfg.Grace(), cfg.Settle()),
	)
	outcome, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if outcome == reset.ResetFailed {
		log.Printf("Reset finished with state %s", r.State())
	}
	return nil
}

func newPathsCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, paths, err := hostPlatform(loadConfig(*opts))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "platform:  %s\n", ops.Name())
			fmt.Fprintf(out, "settings:  %s\n", paths.StoragePath)
			fmt.Fprintf(out, "database:  %s\n", paths.SQLitePath)
			fmt.Fprintf(out, "app:       %s\n", paths.AppPath)
			return nil
		},
	}
}

func newBackupsCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List settings file backups, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := hostPlatform(loadConfig(*opts))
			if err != nil {
				return err
			}
			backups, err := settings.New(paths.StoragePath).Backups()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, "no backups")
				return nil
			}
			for _, b := range backups {
				fmt.Fprintln(out, b)
			}
			return nil
		},
	}
}

func newConfigCmd(opts *runOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the override file",
		Args:  cobra.NoArgs,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an override file with the built-in defaults for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initConfig(opts.configPath, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

// initConfig writes the defaults, with the host's path templates spelled
// out, to path or to the data directory when path is empty.
func initConfig(path string, force bool) (string, error) {
	if path == "" {
		if _, err := config.EnsureDataDir(); err != nil {
			return "", err
		}
		p, err := config.ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s (use --force to overwrite)", errConfigExists, path)
		}
	}

	o, err := config.ParseOS(runtime.GOOS)
	if err != nil {
		return "", err
	}
	tmpl, err := config.DefaultTemplate(o)
	if err != nil {
		return "", err
	}

	cfg := config.DefaultConfig()
	cfg.Paths = tmpl
	if err := config.SaveConfigTo(cfg, path); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return path, nil
}
