package collector

import (
	"fmt"
)

const (
	// VersionMajor represents the current major version of the collector.
	VersionMajor = 1
	// VersionMinor represents the current minor version of the collector.
	VersionMinor = 2
	// VersionPatch represents the current patch version of the collector.
	VersionPatch = 0
)

// Version provides a stringified version of the current version.
var Version string

func init() {
	// Compute the stringified version.
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
