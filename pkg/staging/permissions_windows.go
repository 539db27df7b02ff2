//go:build windows

package staging

import (
	"github.com/hectane/go-acl"
)

// restrictStagingRoot restricts access to the staging directory. Windows
// ignores POSIX permission bits, so an owner-only ACL is applied instead.
func restrictStagingRoot(root string) error {
	return acl.Chmod(root, 0700)
}
