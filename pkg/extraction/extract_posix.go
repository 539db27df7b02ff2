//go:build !windows

package extraction

import (
	"os"

	"github.com/gems-ir/collector/pkg/logging"
)

// ExtractFile copies the source file into the destination. On non-Windows
// hosts only the filesystem path exists, so a filesystem failure is final.
// The snapshot device parameter is ignored on these platforms.
func ExtractFile(source string, destination *os.File, _ string, logger *logging.Logger) (uint64, bool, error) {
	count, err := extractViaFilesystem(source, destination)
	if err != nil {
		return 0, false, err
	}
	logger.Debugf("extracted via filesystem: %s", source)
	return count, false, nil
}
