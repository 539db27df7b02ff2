package staging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// manifestName is the fixed name of the collection manifest inside the
// staging directory.
const manifestName = "Collector_copy.csv"

// Stager maps source paths to destination paths beneath a per-host staging
// directory and exposes file handles for writing. It exclusively owns the
// staging directory for the lifetime of a collection. CreateFile rejects any
// relative path that would resolve outside that directory, so the stager
// never writes outside it; FilePath computes paths without that check.
type Stager struct {
	// baseDestination is the user-chosen destination root.
	baseDestination string
	// folderName is the name of the staging subdirectory.
	folderName string
	// root is the absolute path of the staging subdirectory.
	root string
}

// NewStager creates a stager rooted at Collector_<hostname> beneath the
// specified destination. If the hostname can't be queried, "unknown" is used.
func NewStager(destination string) (*Stager, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return NewStagerWithFolderName(destination, "Collector_"+hostname)
}

// NewStagerWithFolderName creates a stager with an explicit staging folder
// name beneath the specified destination.
func NewStagerWithFolderName(destination, folderName string) (*Stager, error) {
	// Create the stager.
	stager := &Stager{
		baseDestination: destination,
		folderName:      folderName,
		root:            filepath.Join(destination, folderName),
	}

	// Create the staging directory.
	if err := os.MkdirAll(stager.root, 0700); err != nil {
		return nil, errors.Wrapf(err, "unable to create staging directory %s", stager.root)
	}

	// Restrict access to the staging directory on platforms where directory
	// permission bits alone don't suffice.
	if err := restrictStagingRoot(stager.root); err != nil {
		return nil, errors.Wrap(err, "unable to restrict staging directory")
	}

	// Success.
	return stager, nil
}

// NormalizeRelativePath converts a source path into a destination-relative
// path: drive-letter and stream colons are stripped and leading separators of
// either form are removed. The relative structure below is preserved.
func NormalizeRelativePath(path string) string {
	path = strings.ReplaceAll(path, ":", "")
	return strings.TrimLeft(path, "/\\")
}

// BaseDestination returns the user-chosen destination root.
func (s *Stager) BaseDestination() string {
	return s.baseDestination
}

// FolderName returns the name of the staging subdirectory.
func (s *Stager) FolderName() string {
	return s.folderName
}

// Root returns the absolute path of the staging subdirectory.
func (s *Stager) Root() string {
	return s.root
}

// FilePath returns the absolute destination path for the specified relative
// path, with disallowed characters normalized out. It doesn't verify that the
// result lies beneath the staging directory: ".." components are resolved by
// the join and can lead outside it.
func (s *Stager) FilePath(relative string) string {
	return filepath.Join(s.root, NormalizeRelativePath(relative))
}

// containedFilePath computes the destination path for the specified relative
// path and verifies that it lies strictly beneath the staging directory.
func (s *Stager) containedFilePath(relative string) (string, error) {
	path := s.FilePath(relative)
	if escape, err := filepath.Rel(s.root, path); err != nil {
		return "", errors.Wrapf(err, "unable to contain path %s", relative)
	} else if escape == "." || escape == ".." || strings.HasPrefix(escape, ".."+string(os.PathSeparator)) {
		return "", errors.Errorf("path escapes staging directory: %s", relative)
	}
	return path, nil
}

// CreateFile creates all intermediate directories for the specified relative
// path, opens the destination for writing (truncating any existing file), and
// returns the writable handle.
func (s *Stager) CreateFile(relative string) (*os.File, error) {
	// Compute and validate the destination path.
	path, err := s.containedFilePath(relative)
	if err != nil {
		return nil, err
	}

	// Create intermediate directories.
	if parent := filepath.Dir(path); parent != "" {
		if err := os.MkdirAll(parent, 0700); err != nil {
			return nil, errors.Wrapf(err, "unable to create directory %s", parent)
		}
	}

	// Open the destination.
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create file %s", path)
	}

	// Success.
	return file, nil
}

// ManifestPath returns the fixed path of the collection manifest inside the
// staging directory.
func (s *Stager) ManifestPath() string {
	return s.FilePath(manifestName)
}
