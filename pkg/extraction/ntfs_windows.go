//go:build windows

package extraction

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/Microsoft/go-winio"

	ntfs "www.velocidex.com/golang/go-ntfs/parser"
)

const (
	// volumeSectorSize is the sector alignment used for raw volume reads.
	volumeSectorSize = 4096
	// ntfsPageCacheSize is the number of pages cached while walking NTFS
	// structures.
	ntfsPageCacheSize = 256
	// ntfsReadBufferSize is the chunk size used when copying data streams.
	ntfsReadBufferSize = 32 * 1024
	// rootDirectoryRecord is the MFT record number of the volume root
	// directory.
	rootDirectoryRecord = 5
)

// extractNTFS opens the specified volume device as a raw byte stream, walks
// the master file table name index to the specified volume-relative path, and
// streams the file's default data attribute into the destination. Name
// lookups are case-insensitive per the volume's uppercase-conversion table.
func extractNTFS(deviceName, relativePath string, destination *os.File) (uint64, error) {
	// Split the relative path on backslashes, discarding empty components.
	// The last component is the target filename; all earlier components are
	// directory names.
	var components []string
	for _, component := range strings.Split(relativePath, `\`) {
		if component != "" {
			components = append(components, component)
		}
	}
	if len(components) == 0 {
		return 0, &NTFSExtractionError{Path: relativePath, Reason: "Empty path"}
	}

	// Open the volume as a raw byte stream, holding backup privileges for
	// the duration of the open so that locked system volumes are accessible.
	var volume *os.File
	if err := winio.RunWithPrivilege(winio.SeBackupPrivilege, func() error {
		var openErr error
		volume, openErr = os.Open(deviceName)
		return openErr
	}); err != nil {
		return 0, errors.Wrapf(err, "unable to open volume %s", deviceName)
	}
	defer volume.Close()

	// Wrap the device in a sector-aligned adapter and a bounded page cache.
	sectors, err := NewSectorReader(volume, volumeSectorSize)
	if err != nil {
		return 0, errors.Wrap(err, "unable to create sector reader")
	}
	pages, err := ntfs.NewPagedReader(sectors, volumeSectorSize, ntfsPageCacheSize)
	if err != nil {
		return 0, errors.Wrap(err, "unable to create paged reader")
	}

	// Initialize the NTFS superstructure from the boot sector.
	context, err := ntfs.GetNTFSContext(pages, 0)
	if err != nil {
		return 0, errors.Wrap(err, "unable to initialize NTFS volume")
	}

	// Locate the root directory.
	directory, err := context.GetMFT(rootDirectoryRecord)
	if err != nil {
		return 0, errors.Wrap(err, "unable to open root directory")
	}

	// Walk the directory components via the name index.
	for _, component := range components[:len(components)-1] {
		next, err := directory.Open(context, component)
		if err != nil {
			return 0, &NTFSExtractionError{Path: component, Reason: "Directory not found"}
		}
		directory = next
	}

	// Resolve the final component.
	filename := components[len(components)-1]
	if _, err := directory.Open(context, filename); err != nil {
		return 0, &NTFSExtractionError{Path: filename, Reason: "File not found"}
	}

	// Open the default (unnamed) data attribute as a random-access stream.
	stream, err := ntfs.GetDataForPath(context, strings.Join(components, `\`))
	if err != nil {
		return 0, &NTFSExtractionError{Path: relativePath, Reason: err.Error()}
	}

	// Copy the stream in fixed-size chunks.
	buffer := make([]byte, ntfsReadBufferSize)
	var total uint64
	var offset int64
	for {
		count, err := stream.ReadAt(buffer, offset)
		if count > 0 {
			if _, writeErr := destination.Write(buffer[:count]); writeErr != nil {
				return total, errors.Wrap(writeErr, "unable to write destination")
			}
			total += uint64(count)
			offset += int64(count)
		}
		if err == io.EOF || count == 0 {
			break
		} else if err != nil {
			return total, &NTFSExtractionError{Path: relativePath, Reason: err.Error()}
		}
	}

	// Success.
	return total, nil
}
