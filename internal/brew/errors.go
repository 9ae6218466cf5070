package brew

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPackage is returned when no formula matches a name.
	ErrUnknownPackage = errors.New("no available formula")

	// ErrAlreadyAttempted is returned when a formula is installed a second
	// time in the same run.
	ErrAlreadyAttempted = errors.New("formula installation already attempted")
)

// InstallError is a failed brew install. Output holds the combined output
// when it was captured.
type InstallError struct {
	Formula string
	Output  string
	Err     error
}

func (e *InstallError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("brew install %s failed: %v (output: %s)", e.Formula, e.Err, e.Output)
	}
	return fmt.Sprintf("brew install %s failed: %v", e.Formula, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
