package collection

// Stats aggregates collection counters for one or more acquisition passes.
type Stats struct {
	// FilesCollected is the number of files successfully acquired.
	FilesCollected uint64
	// BytesCollected is the total byte count of acquired copies.
	BytesCollected uint64
	// FilesystemExtractions is the number of files acquired through ordinary
	// filesystem reads.
	FilesystemExtractions uint64
	// NTFSExtractions is the number of files acquired through the raw-NTFS
	// fallback.
	NTFSExtractions uint64
	// FailedExtractions is the number of files whose processing failed: the
	// destination couldn't be created, neither extraction path succeeded, or
	// the staged copy couldn't be hashed and recorded in the manifest (such a
	// file is then also counted in FilesCollected).
	FailedExtractions uint64
	// PatternsProcessed is the number of path patterns expanded.
	PatternsProcessed uint64
}

// Merge adds the specified statistics into this set componentwise.
func (s *Stats) Merge(other *Stats) {
	s.FilesCollected += other.FilesCollected
	s.BytesCollected += other.BytesCollected
	s.FilesystemExtractions += other.FilesystemExtractions
	s.NTFSExtractions += other.NTFSExtractions
	s.FailedExtractions += other.FailedExtractions
	s.PatternsProcessed += other.PatternsProcessed
}
