// Package version provides build version information.
package version

// Version is overridden at build time via ldflags.
// Example: go build -ldflags "-X github.com/graaaaa/machineid-reset/internal/version.Version=0.1.0"
var Version = "dev"

// Commit is overridden at build time via ldflags.
var Commit = "unknown"

// Long returns the version with the commit it was built from.
func Long() string {
	return Version + " (commit: " + Commit + ")"
}
