package collection

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mutagen-io/extstat"
)

// preserveSourceTimes applies the source file's modification and access
// times to the destination so that the manifest reflects origin semantics
// rather than copy semantics. The source's metadata is typically still
// readable even when its contents required a raw-volume read.
func preserveSourceTimes(source, destination string) error {
	times, err := extstat.NewFromFileName(source)
	if err != nil {
		return errors.Wrapf(err, "unable to read times for %s", source)
	}
	if err := os.Chtimes(destination, times.AccessTime, times.ModTime); err != nil {
		return errors.Wrapf(err, "unable to apply times to %s", destination)
	}
	return nil
}
