package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrTapRegistrationFailed means the tap for an entry could not be
	// added. No keg was touched.
	ErrTapRegistrationFailed = errors.New("tap registration failed")

	// ErrRestoreFailed means a backup could not be put back after a failed
	// install. Keg state can no longer be trusted, so the run stops.
	ErrRestoreFailed = errors.New("restore from backup failed")
)

// FailedAndRestoredError reports an install failure after the previous keg,
// if any, was restored.
type FailedAndRestoredError struct {
	Formula  string
	Restored bool // false when there was no prior install to restore
	Cause    error
}

func (e *FailedAndRestoredError) Error() string {
	if e.Restored {
		return fmt.Sprintf("installing %s failed, previous keg restored: %v", e.Formula, e.Cause)
	}
	return fmt.Sprintf("installing %s failed: %v", e.Formula, e.Cause)
}

func (e *FailedAndRestoredError) Unwrap() error {
	return e.Cause
}
