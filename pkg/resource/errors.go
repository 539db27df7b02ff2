package resource

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoResourcesSpecified indicates that a resolution request named no
// artifacts at all.
var ErrNoResourcesSpecified = errors.New("no resources specified")

// NotFoundError indicates that a requested artifact name doesn't exist in the
// catalog. An unknown name is fatal for a collection: the operator asked for
// something that doesn't exist, and silently omitting it would be dangerous.
type NotFoundError struct {
	// Name is the requested artifact name.
	Name string
}

// Error implements error.Error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact %q not found in resources", e.Name)
}

// DirectoryNotFoundError indicates that the configured resource root doesn't
// exist or isn't a directory.
type DirectoryNotFoundError struct {
	// Path is the configured resource root.
	Path string
}

// Error implements error.Error.
func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("resource directory not found: %s", e.Path)
}
