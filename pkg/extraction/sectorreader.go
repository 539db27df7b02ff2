package extraction

import (
	"io"

	"github.com/pkg/errors"
)

// SectorReader adapts a raw device handle, whose reads must start and end on
// sector boundaries, into an io.ReaderAt usable at arbitrary offsets and
// lengths. Reads are widened to the enclosing sector-aligned range and the
// requested window is copied out.
type SectorReader struct {
	// source is the underlying device.
	source io.ReaderAt
	// sectorSize is the device's sector size in bytes.
	sectorSize int64
}

// NewSectorReader creates a sector-aligned adapter over the specified device.
// The sector size must be a positive power of two.
func NewSectorReader(source io.ReaderAt, sectorSize int64) (*SectorReader, error) {
	if sectorSize <= 0 || sectorSize&(sectorSize-1) != 0 {
		return nil, errors.Errorf("invalid sector size: %d", sectorSize)
	}
	return &SectorReader{
		source:     source,
		sectorSize: sectorSize,
	}, nil
}

// ReadAt implements io.ReaderAt.ReadAt.
func (r *SectorReader) ReadAt(buffer []byte, offset int64) (int, error) {
	// Handle degenerate reads.
	if len(buffer) == 0 {
		return 0, nil
	}

	// Compute the enclosing sector-aligned range.
	start := offset &^ (r.sectorSize - 1)
	length := offset - start + int64(len(buffer))
	if remainder := length & (r.sectorSize - 1); remainder != 0 {
		length += r.sectorSize - remainder
	}

	// Read the aligned range.
	aligned := make([]byte, length)
	count, err := r.source.ReadAt(aligned, start)

	// Copy out the requested window.
	skip := offset - start
	if int64(count) <= skip {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	copied := copy(buffer, aligned[skip:count])

	// A short copy without an underlying error still has to surface an error
	// to satisfy the io.ReaderAt contract, and a full copy doesn't need to
	// propagate the underlying EOF.
	if copied < len(buffer) && err == nil {
		err = io.EOF
	} else if copied == len(buffer) && err == io.EOF {
		err = nil
	}
	return copied, err
}
