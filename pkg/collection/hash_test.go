package collection

import (
	"os"
	"path/filepath"
	"testing"
)

// TestHashFileSHA1 tests streaming SHA-1 computation against a known digest.
func TestHashFileSHA1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal("unable to write file:", err)
	}
	digest, err := hashFileSHA1(path)
	if err != nil {
		t.Fatal("hashing failed:", err)
	}
	if digest != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Error("unexpected digest:", digest)
	}
}

// TestHashFileSHA1Missing tests that hashing a missing file fails.
func TestHashFileSHA1Missing(t *testing.T) {
	if _, err := hashFileSHA1(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("hashing succeeded for missing file")
	}
}
