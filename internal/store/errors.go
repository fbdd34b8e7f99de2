package store

import "errors"

// Sentinel errors for the store package.
var (
	// ErrNoItems is returned when an update is requested with nothing to write.
	ErrNoItems = errors.New("no items to update")
)
