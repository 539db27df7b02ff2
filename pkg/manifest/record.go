package manifest

import (
	"strconv"
)

// Record is one row of the collection manifest: a single acquired artifact
// together with the integrity hash of its staged copy.
type Record struct {
	// CollectTime is the RFC 3339 collection timestamp.
	CollectTime string
	// SourceFile is the absolute source path.
	SourceFile string
	// DestinationFile is the absolute destination path.
	DestinationFile string
	// HashSHA1 is the lowercase hex SHA-1 of the destination contents.
	HashSHA1 string
	// FromNTFS indicates whether the raw-NTFS acquisition path was used.
	FromNTFS bool
	// ModifiedTime is the destination file's last-modified timestamp. When
	// raw-NTFS acquisition is used on Windows, the source's times are applied
	// to the destination first, so this column then reflects origin times.
	ModifiedTime string
	// AccessTime is the destination file's last-accessed timestamp, with the
	// same origin-time semantics as ModifiedTime.
	AccessTime string
	// FileSize is the byte length of the staged copy.
	FileSize uint64
}

// header is the manifest header row.
var header = []string{
	"collect_time",
	"source_file",
	"destination_file",
	"hash_sha1",
	"from_ntfs",
	"modified_time",
	"access_time",
	"file_size",
}

// fields returns the record's column values in manifest order.
func (r *Record) fields() []string {
	return []string{
		r.CollectTime,
		r.SourceFile,
		r.DestinationFile,
		r.HashSHA1,
		strconv.FormatBool(r.FromNTFS),
		r.ModifiedTime,
		r.AccessTime,
		strconv.FormatUint(r.FileSize, 10),
	}
}
