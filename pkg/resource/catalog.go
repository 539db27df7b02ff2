package resource

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"

	"github.com/bmatcuk/doublestar/v4"

	"gopkg.in/yaml.v2"

	"github.com/gems-ir/collector/pkg/encoding"
	"github.com/gems-ir/collector/pkg/logging"
)

// definitionFilePattern is the pattern used to discover definition files
// beneath the resource root.
const definitionFilePattern = "**/*.yaml"

// Catalog is an immutable mapping from artifact name to definition, built
// once at startup from the union of all definition files found under a
// resource root. It is safe for concurrent reads.
type Catalog struct {
	// definitions maps artifact names to their definitions.
	definitions map[string]*Definition
	// names records artifact names in load order.
	names []string
}

// LoadCatalog discovers every definition file beneath the specified root,
// parses each as a multi-document YAML stream, and returns the catalog of
// definitions applicable to the running operating system. Invalid documents
// are skipped with a warning so that one malformed entry doesn't invalidate
// a catalog curated over years, but an unreadable or syntactically broken
// file fails the load.
func LoadCatalog(root string, logger *logging.Logger) (*Catalog, error) {
	return loadCatalogForOS(root, runtime.GOOS, logger)
}

// loadCatalogForOS is the underlying catalog loading implementation,
// parameterized on the target GOOS for testability.
func loadCatalogForOS(root, goos string, logger *logging.Logger) (*Catalog, error) {
	// Ensure that the resource root exists and is a directory.
	if info, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, &DirectoryNotFoundError{Path: root}
		}
		return nil, errors.Wrap(err, "unable to probe resource directory")
	} else if !info.IsDir() {
		return nil, &DirectoryNotFoundError{Path: root}
	}

	// Discover definition files. Discovery order depends on the host's
	// directory iterator, so sort for deterministic loads.
	files, err := doublestar.FilepathGlob(filepath.Join(root, definitionFilePattern))
	if err != nil {
		return nil, errors.Wrap(err, "unable to search for definition files")
	}
	sort.Strings(files)

	// Create the catalog.
	catalog := &Catalog{
		definitions: make(map[string]*Definition),
	}

	// Process each definition file.
	for _, file := range files {
		// Split the file into documents. Failure here (I/O or syntax at the
		// outer level) fails the load as a whole.
		documents, err := encoding.LoadYAMLDocuments(file)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse resource file %s", file)
		}

		// Decode and register each document independently.
		for _, document := range documents {
			definition := &Definition{}
			if err := yaml.UnmarshalStrict(document, definition); err != nil {
				logger.Warnf("skipping malformed definition in %s: %v", file, err)
				continue
			}
			if err := definition.EnsureValid(); err != nil {
				logger.Warnf("skipping invalid definition in %s: %v", file, err)
				continue
			}
			if !definition.Metadata.Target.Matches(goos) {
				continue
			}
			if _, ok := catalog.definitions[definition.Metadata.Name]; ok {
				logger.Warnf("skipping duplicate definition of %q in %s", definition.Metadata.Name, file)
				continue
			}
			catalog.definitions[definition.Metadata.Name] = definition
			catalog.names = append(catalog.names, definition.Metadata.Name)
		}
	}

	// Success.
	return catalog, nil
}

// Lookup returns the definition registered under the specified name, if any.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	definition, ok := c.definitions[name]
	return definition, ok
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// Names returns the artifact names in the catalog in load order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}
