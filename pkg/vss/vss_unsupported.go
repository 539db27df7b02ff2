//go:build !windows

package vss

// Supported indicates whether or not shadow copies are available on this
// platform.
const Supported = false

// Snapshots enumerates all shadow copies of the volume backing the specified
// drive letter. It is unsupported on this platform.
func Snapshots(_ string) ([]Snapshot, error) {
	return nil, ErrUnsupported
}

// Mount binds a snapshot into the workspace. It is unsupported on this
// platform.
func Mount(_ *Snapshot, _ string) (string, error) {
	return "", ErrUnsupported
}
