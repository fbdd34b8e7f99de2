// Package main provides the entry point for Machine ID Reset.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
	"github.com/graaaaa/machineid-reset/internal/version"
)

func main() {
	os.Exit(execute(newRootCmd(), os.Stderr))
}

// execute runs cmd and maps the result to the process exit code: 0 when the
// flow ended normally, including a reset that reported failure, 1 otherwise.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "\nProgram error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:   "machineid-reset",
		Short: "Reset the telemetry machine IDs of " + appinfo.TargetName,
		Long: `machineid-reset gives ` + appinfo.TargetName + ` a new telemetry identity.

It walks through four steps:
  1. Sign out of ` + appinfo.TargetName + `
  2. Quit ` + appinfo.TargetName + ` (a running process is closed for you)
  3. Write new machine IDs to storage.json and state.vscdb
  4. Sign in again

storage.json is backed up to storage.json.bak.<YYYYMMDD_HHMMSS> before it is rewritten.`,
		Version:       version.Long(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"override file (default: "+appinfo.ConfigFileName+" in the tool's data directory)")

	rootCmd.AddCommand(
		newPathsCmd(&opts),
		newBackupsCmd(&opts),
		newConfigCmd(&opts),
	)

	return rootCmd
}
