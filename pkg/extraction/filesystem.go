package extraction

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// extractViaFilesystem streams the source file's contents into the
// destination through ordinary filesystem reads, returning the number of
// bytes written.
func extractViaFilesystem(source string, destination *os.File) (uint64, error) {
	// Open the source.
	file, err := os.Open(source)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to open source %s", source)
	}
	defer file.Close()

	// Stream the contents.
	count, err := io.Copy(destination, file)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to copy %s", source)
	}

	// Success.
	return uint64(count), nil
}
