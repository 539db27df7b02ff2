//go:build !windows

package staging

// restrictStagingRoot restricts access to the staging directory. On POSIX
// systems the 0700 mode applied at creation time already suffices.
func restrictStagingRoot(_ string) error {
	return nil
}
