//go:build !windows

package privilege

import (
	"os"
)

// Elevated indicates whether or not the current process is running with an
// effective UID of 0.
func Elevated() bool {
	return os.Geteuid() == 0
}
