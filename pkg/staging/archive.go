package staging

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/alexmullins/zip"
)

// CreateArchive walks the staging directory into a <folderName>.zip archive
// beside it, compressing entries with Deflate and encrypting them with
// AES-256 when a password is supplied. On success the staged subtree is
// removed, leaving only the archive under the destination root.
func (s *Stager) CreateArchive(password string) error {
	// Create the archive file.
	archivePath := filepath.Join(s.baseDestination, s.folderName+".zip")
	archive, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "unable to create archive %s", archivePath)
	}
	defer archive.Close()

	// Create the archive writer.
	writer := zip.NewWriter(archive)

	// Walk the staging directory into the archive.
	if err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Compute the archive-relative path, skipping the root itself.
		relative, err := filepath.Rel(s.root, path)
		if err != nil {
			return errors.Wrapf(err, "unable to relativize %s", path)
		} else if relative == "." {
			return nil
		}
		relative = filepath.ToSlash(relative)

		// Record directories as explicit entries.
		if entry.IsDir() {
			if _, err := writer.Create(relative + "/"); err != nil {
				return errors.Wrapf(err, "unable to add directory %s", relative)
			}
			return nil
		}

		// Create the entry header.
		header := &zip.FileHeader{
			Name:   relative,
			Method: zip.Deflate,
		}
		if password != "" {
			header.SetPassword(password)
		}
		target, err := writer.CreateHeader(header)
		if err != nil {
			return errors.Wrapf(err, "unable to add entry %s", relative)
		}

		// Copy the file contents.
		file, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "unable to open %s", path)
		}
		defer file.Close()
		if _, err := io.Copy(target, file); err != nil {
			return errors.Wrapf(err, "unable to archive %s", path)
		}

		// Success.
		return nil
	}); err != nil {
		writer.Close()
		return errors.Wrap(err, "unable to populate archive")
	}

	// Finalize the archive.
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "unable to finalize archive")
	}
	if err := archive.Close(); err != nil {
		return errors.Wrap(err, "unable to close archive")
	}

	// Remove the staged subtree now that it's packaged.
	if err := os.RemoveAll(s.root); err != nil {
		return errors.Wrap(err, "unable to remove staged subtree")
	}

	// Success.
	return nil
}
