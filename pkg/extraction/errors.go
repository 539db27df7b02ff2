package extraction

import (
	"fmt"
)

// NTFSExtractionError indicates a per-file failure in the raw-NTFS
// acquisition path. Instances are reported per file by the acquisition
// engine and don't abort a collection.
type NTFSExtractionError struct {
	// Path is the path (or path component) that failed to resolve.
	Path string
	// Reason describes the failure.
	Reason string
}

// Error implements error.Error.
func (e *NTFSExtractionError) Error() string {
	return fmt.Sprintf("NTFS extraction failed for %q: %s", e.Path, e.Reason)
}

// InvalidDriveLetterError indicates a source path without a leading drive
// letter, which makes raw volume access impossible.
type InvalidDriveLetterError struct {
	// Path is the offending source path.
	Path string
}

// Error implements error.Error.
func (e *InvalidDriveLetterError) Error() string {
	return fmt.Sprintf("invalid drive letter: %s", e.Path)
}
