// Package appinfo provides application identity constants.
// These are used across packages for consistent naming.
package appinfo

const (
	// AppName is the display name of the tool.
	AppName = "Machine ID Reset"

	// TargetName is the display name of the editor whose identity is reset.
	TargetName = "Cursor"

	// DirName is the directory name used for the tool's own data.
	// Location: %LOCALAPPDATA%/machineid-reset/ (Windows) or ~/.config/machineid-reset/ (other)
	DirName = "machineid-reset"

	// MutexName is the Windows mutex name for single instance control.
	// "Local\" prefix scopes the mutex to the current user session.
	MutexName = "Local\\machineid-reset"

	// LockFileName is the lock file name for single instance control.
	LockFileName = "machineid-reset.lock"

	// ConfigFileName is the optional override file name.
	ConfigFileName = "config.json"

	// BackupInfix separates the settings file name from the backup timestamp.
	BackupInfix = ".bak."

	// BackupTimeFormat is the second-resolution timestamp appended to backups.
	BackupTimeFormat = "20060102_150405"

	// ItemTableName is the key/value table inside the editor's state database.
	ItemTableName = "ItemTable"
)

// Process names matched by the process controller.
const (
	// WindowsImageName is the executable image name on Windows.
	WindowsImageName = "cursor.exe"

	// LinuxProcessPattern is the pgrep/pkill pattern on Linux.
	LinuxProcessPattern = "cursor"

	// DarwinProcessPattern is the pgrep/pkill pattern on macOS.
	DarwinProcessPattern = "Cursor"
)
