package vss

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnsupported indicates that shadow copies aren't available on this
// platform.
var ErrUnsupported = errors.New("shadow copies not supported on this platform")

// NoSnapshotsError indicates that a volume has no shadow copies.
type NoSnapshotsError struct {
	// Drive is the drive letter whose volume was queried.
	Drive string
}

// Error implements error.Error.
func (e *NoSnapshotsError) Error() string {
	return fmt.Sprintf("no shadow copies found for drive %q", e.Drive)
}

// MountError indicates a failure to bind a snapshot into the temporary
// workspace.
type MountError struct {
	// Snapshot is the identifier of the snapshot being mounted.
	Snapshot string
	// Underlying is the underlying cause.
	Underlying error
}

// Error implements error.Error.
func (e *MountError) Error() string {
	return fmt.Sprintf("unable to mount snapshot %s: %v", e.Snapshot, e.Underlying)
}

// Unwrap returns the underlying cause.
func (e *MountError) Unwrap() error {
	return e.Underlying
}
