package collector

import (
	"os"
)

// DebugEnabled controls whether or not debugging is enabled for the collector.
// It is set automatically based on the COLLECTOR_DEBUG environment variable.
var DebugEnabled bool

func init() {
	// Check whether or not debugging should be enabled.
	DebugEnabled = os.Getenv("COLLECTOR_DEBUG") == "1"
}
