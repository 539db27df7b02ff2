package vss

import (
	"strings"
)

// Snapshot identifies one shadow copy of a volume.
type Snapshot struct {
	// OriginalVolumeName is the stable volume GUID path (of the form
	// \\?\Volume{GUID}\) of the volume that was snapshotted.
	OriginalVolumeName string
	// DeviceVolumeName is the raw device path of the shadow copy, which can
	// be opened or symlinked independently of the live volume.
	DeviceVolumeName string
}

// ID returns the snapshot identifier: the trailing component of the device
// volume name.
func (s *Snapshot) ID() string {
	if index := strings.LastIndex(s.DeviceVolumeName, `\`); index >= 0 {
		return s.DeviceVolumeName[index+1:]
	}
	return s.DeviceVolumeName
}
