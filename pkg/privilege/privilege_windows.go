//go:build windows

package privilege

import (
	"golang.org/x/sys/windows"
)

// Elevated indicates whether or not the current process token is elevated.
func Elevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
