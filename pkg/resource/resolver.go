package resource

import (
	"strings"
)

// normalizePattern strips leading path separators of either form (including
// repeated separators) from a pattern. No case folding or separator
// translation is performed: patterns are consumed later on the host's
// conventions.
func normalizePattern(pattern string) string {
	return strings.TrimLeft(pattern, "/\\")
}

// resolutionState tracks transient state during pattern resolution: the set
// of already-visited artifact names (which doubles as the cycle guard) and
// the ordered sequence of deduplicated patterns.
type resolutionState struct {
	// visited records artifact names that have already been expanded.
	visited map[string]bool
	// seen records patterns that have already been emitted.
	seen map[string]bool
	// patterns is the output sequence, in depth-first pre-order.
	patterns []string
}

// resolve expands the specified names into the state's pattern sequence.
func (s *resolutionState) resolve(catalog *Catalog, names []string) error {
	for _, name := range names {
		// Skip names that have already been expanded. This also breaks
		// group cycles.
		if s.visited[name] {
			continue
		}

		// Look up the definition. Unknown names are fatal.
		definition, ok := catalog.Lookup(name)
		if !ok {
			return &NotFoundError{Name: name}
		}
		s.visited[name] = true

		// Groups recurse into their members in declaration order.
		if definition.IsGroup() {
			if err := s.resolve(catalog, definition.Artifact.Group); err != nil {
				return err
			}
			continue
		}

		// Append the definition's patterns, guarding against duplicates.
		for _, pattern := range definition.Artifact.Path {
			normalized := normalizePattern(pattern)
			if s.seen[normalized] {
				continue
			}
			s.seen[normalized] = true
			s.patterns = append(s.patterns, normalized)
		}
	}
	return nil
}

// Resolve computes the ordered, deduplicated sequence of path patterns for
// the requested artifact names, expanding groups depth-first in declaration
// order. It returns ErrNoResourcesSpecified for an empty request and a
// NotFoundError for any name absent from the catalog.
func (c *Catalog) Resolve(names []string) ([]string, error) {
	// Reject empty requests.
	if len(names) == 0 {
		return nil, ErrNoResourcesSpecified
	}

	// Perform the expansion.
	state := &resolutionState{
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	if err := state.resolve(c, names); err != nil {
		return nil, err
	}

	// Success.
	return state.patterns, nil
}
