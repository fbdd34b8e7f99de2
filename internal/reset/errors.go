package reset

import "errors"

// Sentinel errors for the flow. The first three are handled failures of the
// reset step: Run reports them to the operator and returns ResetFailed.
var (
	// ErrSettingsUnavailable is returned when the settings file is missing
	// or not readable and writable. Nothing is generated or written.
	ErrSettingsUnavailable = errors.New("settings file unavailable")

	// ErrSettingsUpdate is returned when backing up or rewriting the
	// settings file fails. The database is not touched.
	ErrSettingsUpdate = errors.New("settings update failed")

	// ErrDatabaseUpdate is returned when the database upsert fails after
	// the settings file was already rewritten.
	ErrDatabaseUpdate = errors.New("database update failed")

	// ErrInvalidTransition is returned when a step is run out of order.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInputClosed is returned when the input ends before the operator
	// confirmed a prompt.
	ErrInputClosed = errors.New("input closed before confirmation")
)

// IsResetFailure reports whether err is a handled reset failure.
func IsResetFailure(err error) bool {
	return errors.Is(err, ErrSettingsUnavailable) ||
		errors.Is(err, ErrSettingsUpdate) ||
		errors.Is(err, ErrDatabaseUpdate)
}
