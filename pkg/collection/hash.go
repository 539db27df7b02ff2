package collection

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// hashBufferSize bounds the buffer used when hashing staged files.
const hashBufferSize = 64 * 1024

// hashFileSHA1 computes the lowercase hex SHA-1 digest of the file at the
// specified path using a bounded streaming read.
func hashFileSHA1(path string) (string, error) {
	// Open the file.
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	// Stream the contents through the digest.
	hasher := sha1.New()
	if _, err := io.CopyBuffer(hasher, file, make([]byte, hashBufferSize)); err != nil {
		return "", errors.Wrapf(err, "unable to hash %s", path)
	}

	// Success.
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
