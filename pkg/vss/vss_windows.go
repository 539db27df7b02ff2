//go:build windows

package vss

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-ole/go-ole"

	"github.com/yusufpapurcu/wmi"

	"golang.org/x/sys/windows"

	"github.com/gems-ir/collector/pkg/privilege"
)

// Supported indicates whether or not shadow copies are available on this
// platform.
const Supported = true

// hresultAccessDenied is the COM access-denied failure code.
const hresultAccessDenied = 0x80070005

// win32ShadowCopy mirrors the properties of the WMI Win32_ShadowCopy class
// consumed during enumeration.
type win32ShadowCopy struct {
	// DeviceObject is the raw device path of the shadow copy.
	DeviceObject string
	// VolumeName is the volume GUID path of the snapshotted volume.
	VolumeName string
}

// Snapshots enumerates all shadow copies of the volume backing the specified
// drive letter (e.g. "C:\"), in service enumeration order. It returns
// privilege.ErrInsufficientPrivileges if the shadow-copy service denies
// access and a NoSnapshotsError if the volume has no shadow copies.
func Snapshots(driveLetter string) ([]Snapshot, error) {
	// Enumerate every shadow copy known to the service.
	var entries []win32ShadowCopy
	if err := wmi.Query("SELECT DeviceObject, VolumeName FROM Win32_ShadowCopy", &entries); err != nil {
		var oleErr *ole.OleError
		if errors.As(err, &oleErr) && oleErr.Code() == hresultAccessDenied {
			return nil, privilege.ErrInsufficientPrivileges
		}
		return nil, errors.Wrap(err, "unable to query shadow copies")
	}

	// Canonicalize the requested drive letter to its volume GUID path.
	volumeName, err := volumeNameForMountPoint(driveLetter)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve volume for %s", driveLetter)
	}

	// Filter to shadow copies of that volume.
	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.VolumeName == volumeName {
			snapshots = append(snapshots, Snapshot{
				OriginalVolumeName: entry.VolumeName,
				DeviceVolumeName:   entry.DeviceObject,
			})
		}
	}
	if len(snapshots) == 0 {
		return nil, &NoSnapshotsError{Drive: driveLetter}
	}

	// Success.
	return snapshots, nil
}

// volumeNameForMountPoint returns the canonical volume GUID path (of the
// form \\?\Volume{GUID}\) for the specified mount point.
func volumeNameForMountPoint(mountPoint string) (string, error) {
	// The mount point must be terminated with a trailing backslash.
	if !strings.HasSuffix(mountPoint, `\`) {
		mountPoint += `\`
	}
	mountPoint16, err := windows.UTF16PtrFromString(mountPoint)
	if err != nil {
		return "", errors.Wrap(err, "unable to convert mount point to UTF-16")
	}

	// Query the volume name.
	var buffer [50]uint16
	if err := windows.GetVolumeNameForVolumeMountPoint(mountPoint16, &buffer[0], uint32(len(buffer))); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buffer[:]), nil
}

// Mount binds the snapshot's original volume name into the workspace via a
// directory symlink named after the snapshot identifier, returning the mount
// point through which acquisition can proceed.
func Mount(snapshot *Snapshot, workspace string) (string, error) {
	// Compute the mount point.
	mountPoint := filepath.Join(workspace, snapshot.ID())

	// Convert paths to UTF-16.
	mountPoint16, err := windows.UTF16PtrFromString(mountPoint)
	if err != nil {
		return "", &MountError{Snapshot: snapshot.ID(), Underlying: err}
	}
	target16, err := windows.UTF16PtrFromString(snapshot.OriginalVolumeName)
	if err != nil {
		return "", &MountError{Snapshot: snapshot.ID(), Underlying: err}
	}

	// Create the directory symlink.
	if err := windows.CreateSymbolicLink(mountPoint16, target16, windows.SYMBOLIC_LINK_FLAG_DIRECTORY); err != nil {
		return "", &MountError{Snapshot: snapshot.ID(), Underlying: err}
	}

	// Success.
	return mountPoint, nil
}
