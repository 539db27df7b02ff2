package extraction

import (
	"os"
	"path/filepath"
	"testing"
)

// TestExtractViaFilesystem tests the filesystem extraction path.
func TestExtractViaFilesystem(t *testing.T) {
	// Create a source file.
	directory := t.TempDir()
	source := filepath.Join(directory, "source.txt")
	if err := os.WriteFile(source, []byte("test content"), 0600); err != nil {
		t.Fatal("unable to write source:", err)
	}

	// Create a destination file.
	destination, err := os.Create(filepath.Join(directory, "destination.txt"))
	if err != nil {
		t.Fatal("unable to create destination:", err)
	}
	defer destination.Close()

	// Extract.
	count, err := extractViaFilesystem(source, destination)
	if err != nil {
		t.Fatal("extraction failed:", err)
	}
	if count != 12 {
		t.Error("unexpected byte count:", count)
	}

	// Verify the copy.
	contents, err := os.ReadFile(destination.Name())
	if err != nil {
		t.Fatal("unable to read destination:", err)
	}
	if string(contents) != "test content" {
		t.Error("unexpected destination contents:", string(contents))
	}
}

// TestExtractViaFilesystemMissingSource tests that a missing source fails.
func TestExtractViaFilesystemMissingSource(t *testing.T) {
	directory := t.TempDir()
	destination, err := os.Create(filepath.Join(directory, "destination.txt"))
	if err != nil {
		t.Fatal("unable to create destination:", err)
	}
	defer destination.Close()

	if _, err := extractViaFilesystem(filepath.Join(directory, "absent.txt"), destination); err == nil {
		t.Error("extraction succeeded with missing source")
	}
}
