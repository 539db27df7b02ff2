//go:build windows

package extraction

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gems-ir/collector/pkg/logging"
)

// driveLetterPattern matches the leading drive letter component of an
// absolute Windows path.
var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:\\`)

// driveLetter extracts the leading drive letter component (e.g. "C:\") from
// the specified path.
func driveLetter(path string) (string, error) {
	if match := driveLetterPattern.FindString(path); match != "" {
		return match, nil
	}
	return "", &InvalidDriveLetterError{Path: path}
}

// ExtractFile copies the source file into the destination, first through the
// filesystem and, if and only if that fails (typically because the file is
// locked or access-denied), through a raw read of the backing NTFS volume.
// When a snapshot device path is supplied, the raw read targets that device
// instead of the live volume. The boolean result indicates whether the raw
// path was used.
func ExtractFile(source string, destination *os.File, snapshotDevice string, logger *logging.Logger) (uint64, bool, error) {
	// Attempt filesystem extraction.
	if count, err := extractViaFilesystem(source, destination); err == nil {
		logger.Debugf("extracted via filesystem: %s", source)
		return count, false, nil
	} else {
		logger.Debugf("filesystem extraction failed, trying NTFS: %v", err)
	}

	// Discard any partial filesystem write before retrying.
	if err := destination.Truncate(0); err != nil {
		return 0, false, err
	}
	if _, err := destination.Seek(0, io.SeekStart); err != nil {
		return 0, false, err
	}

	// Fall back to raw NTFS extraction.
	count, err := extractViaNTFS(source, destination, snapshotDevice)
	if err != nil {
		return 0, false, err
	}
	logger.Debugf("extracted via NTFS: %s", source)
	return count, true, nil
}

// extractViaNTFS resolves the volume device backing the source path and
// performs a raw NTFS read of the source's volume-relative path.
func extractViaNTFS(source string, destination *os.File, snapshotDevice string) (uint64, error) {
	// Identify the source volume.
	letter, err := driveLetter(source)
	if err != nil {
		return 0, err
	}

	// Compute the device to open: the snapshot device when acquiring through
	// a shadow copy, the live volume otherwise.
	device := snapshotDevice
	if device == "" {
		device = `\\?\` + strings.TrimSuffix(letter, `\`)
	}

	// Compute the volume-relative path.
	relative := strings.TrimPrefix(source, letter)

	// Perform the raw read.
	return extractNTFS(device, relative, destination)
}
