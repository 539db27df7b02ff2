// Package privilege provides the process elevation query that gates
// acquisition: collection refuses to start without root on POSIX systems or
// an elevated token on Windows.
package privilege

import (
	"github.com/pkg/errors"
)

// ErrInsufficientPrivileges indicates that acquisition was attempted without
// elevated privileges.
var ErrInsufficientPrivileges = errors.New("administrator or root privileges required")

// Require returns ErrInsufficientPrivileges if the current process isn't
// elevated. It is a pure query and holds no handles.
func Require() error {
	if !Elevated() {
		return ErrInsufficientPrivileges
	}
	return nil
}
