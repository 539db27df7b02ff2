package resource

import (
	"errors"
	"testing"
)

// testCatalog constructs a catalog directly from the specified definitions.
func testCatalog(definitions ...*Definition) *Catalog {
	catalog := &Catalog{
		definitions: make(map[string]*Definition),
	}
	for _, definition := range definitions {
		catalog.definitions[definition.Metadata.Name] = definition
		catalog.names = append(catalog.names, definition.Metadata.Name)
	}
	return catalog
}

// pathDefinition constructs a path-backed definition.
func pathDefinition(name string, paths ...string) *Definition {
	return &Definition{
		Metadata: Metadata{
			Name:        name,
			Description: name,
			Target:      TargetWindows,
		},
		Artifact: Artifact{Path: paths},
	}
}

// groupDefinition constructs a group-backed definition.
func groupDefinition(name string, members ...string) *Definition {
	return &Definition{
		Metadata: Metadata{
			Name:        name,
			Description: name,
			Target:      TargetWindows,
		},
		Artifact: Artifact{Group: members},
	}
}

// TestResolvePathArtifact tests resolution of a single path-backed artifact.
func TestResolvePathArtifact(t *testing.T) {
	catalog := testCatalog(pathDefinition("MFT", `\$MFT`))
	patterns, err := catalog.Resolve([]string{"MFT"})
	if err != nil {
		t.Fatal("resolution failed:", err)
	}
	if len(patterns) != 1 || patterns[0] != `$MFT` {
		t.Error("unexpected patterns:", patterns)
	}
}

// TestResolveGroupExpansion tests depth-first group expansion order.
func TestResolveGroupExpansion(t *testing.T) {
	catalog := testCatalog(
		pathDefinition("MFT", `\$MFT`),
		pathDefinition("USN", `\$Extend\$UsnJrnl`),
		groupDefinition("NTFS", "MFT", "USN"),
	)
	patterns, err := catalog.Resolve([]string{"NTFS"})
	if err != nil {
		t.Fatal("resolution failed:", err)
	}
	if len(patterns) != 2 {
		t.Fatal("unexpected pattern count:", len(patterns))
	}
	if patterns[0] != `$MFT` || patterns[1] != `$Extend\$UsnJrnl` {
		t.Error("unexpected pattern order:", patterns)
	}
}

// TestResolveDeduplication tests that a pattern reachable through two groups
// is emitted exactly once.
func TestResolveDeduplication(t *testing.T) {
	catalog := testCatalog(
		pathDefinition("MFT", `\$MFT`),
		groupDefinition("First", "MFT"),
		groupDefinition("Second", "MFT"),
	)
	patterns, err := catalog.Resolve([]string{"First", "Second"})
	if err != nil {
		t.Fatal("resolution failed:", err)
	}
	if len(patterns) != 1 || patterns[0] != `$MFT` {
		t.Error("unexpected patterns:", patterns)
	}
}

// TestResolveUnknownName tests that an unknown name fails resolution with a
// NotFoundError naming the missing artifact.
func TestResolveUnknownName(t *testing.T) {
	catalog := testCatalog(pathDefinition("MFT", `\$MFT`))
	_, err := catalog.Resolve([]string{"NonExistent"})
	if err == nil {
		t.Fatal("resolution succeeded with unknown name")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatal("unexpected error type:", err)
	}
	if notFound.Name != "NonExistent" {
		t.Error("error names wrong artifact:", notFound.Name)
	}
}

// TestResolveCycle tests that group cycles terminate.
func TestResolveCycle(t *testing.T) {
	catalog := testCatalog(
		groupDefinition("A", "B"),
		groupDefinition("B", "A", "Leaf"),
		pathDefinition("Leaf", "/var/log/syslog"),
	)
	patterns, err := catalog.Resolve([]string{"A"})
	if err != nil {
		t.Fatal("resolution failed:", err)
	}
	if len(patterns) != 1 || patterns[0] != "var/log/syslog" {
		t.Error("unexpected patterns:", patterns)
	}
}

// TestResolveEmptyRequest tests that an empty request is rejected.
func TestResolveEmptyRequest(t *testing.T) {
	catalog := testCatalog(pathDefinition("MFT", `\$MFT`))
	if _, err := catalog.Resolve(nil); err != ErrNoResourcesSpecified {
		t.Error("unexpected error for empty request:", err)
	}
}

// TestNormalizePattern tests leading separator stripping.
func TestNormalizePattern(t *testing.T) {
	cases := map[string]string{
		`\$MFT`:            `$MFT`,
		`/var/log/syslog`:  `var/log/syslog`,
		`\\double`:         `double`,
		`//double`:         `double`,
		`Windows\Prefetch`: `Windows\Prefetch`,
	}
	for pattern, expected := range cases {
		if normalized := normalizePattern(pattern); normalized != expected {
			t.Errorf("normalization mismatch for %q: %q != %q", pattern, normalized, expected)
		}
	}
}
