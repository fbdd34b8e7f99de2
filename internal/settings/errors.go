package settings

import "errors"

// Sentinel errors for the settings package.
var (
	// ErrNotFound is returned when the settings file does not exist.
	ErrNotFound = errors.New("settings file not found")

	// ErrNoAccess is returned when the settings file is not readable and writable.
	ErrNoAccess = errors.New("settings file is not readable and writable")

	// ErrInvalidDocument is returned when the file is not a JSON object.
	ErrInvalidDocument = errors.New("settings file is not a JSON object")
)
