package collection

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gems-ir/collector/pkg/privilege"
	"github.com/gems-ir/collector/pkg/staging"
)

// newTestCollector creates a collector over a fixed-name stager together
// with its source and destination roots.
func newTestCollector(t *testing.T, patterns []string) (*Collector, string, string) {
	t.Helper()
	source := t.TempDir()
	destination := t.TempDir()
	stager, err := staging.NewStagerWithFolderName(destination, "Collector_H")
	if err != nil {
		t.Fatal("unable to create stager:", err)
	}
	collector, err := NewCollectorWithStager(source, stager, patterns, nil)
	if err != nil {
		t.Fatal("unable to create collector:", err)
	}
	t.Cleanup(func() { collector.Close() })
	return collector, source, destination
}

// writeSourceFile writes a file beneath the source root.
func writeSourceFile(t *testing.T, source, relative, contents string) string {
	t.Helper()
	path := filepath.Join(source, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal("unable to create source directory:", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal("unable to write source file:", err)
	}
	return path
}

// readManifest reads all rows of the collector's manifest.
func readManifest(t *testing.T, collector *Collector) [][]string {
	t.Helper()
	file, err := os.Open(collector.Stager().ManifestPath())
	if err != nil {
		t.Fatal("unable to open manifest:", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal("unable to read manifest:", err)
	}
	return rows
}

// TestProcessFileRoundTrip tests that acquiring a single file stages it
// beneath the per-host directory with matching contents and manifest row.
func TestProcessFileRoundTrip(t *testing.T) {
	collector, source, destination := newTestCollector(t, nil)
	path := writeSourceFile(t, source, "a/b/c.txt", "hello")

	// Acquire the file.
	if err := collector.processFile(path); err != nil {
		t.Fatal("acquisition failed:", err)
	}

	// The staged copy lives at the literal expected destination: the
	// source-root segment is stripped and only the relative structure below
	// it is preserved beneath Collector_H.
	staged := filepath.Join(destination, "Collector_H", "a", "b", "c.txt")
	contents, err := os.ReadFile(staged)
	if err != nil {
		t.Fatal("unable to read staged copy:", err)
	}
	if string(contents) != "hello" {
		t.Error("unexpected staged contents:", string(contents))
	}

	// Exactly one extraction counter is incremented.
	stats := collector.Stats()
	if stats.FilesCollected != 1 {
		t.Error("unexpected file count:", stats.FilesCollected)
	}
	if stats.FilesystemExtractions != 1 || stats.NTFSExtractions != 0 {
		t.Error("unexpected extraction counters:", stats)
	}
	if stats.BytesCollected != 5 {
		t.Error("unexpected byte count:", stats.BytesCollected)
	}

	// The manifest row carries the expected hash, size, and flags.
	rows := readManifest(t, collector)
	if len(rows) != 2 {
		t.Fatal("unexpected manifest row count:", len(rows))
	}
	row := rows[1]
	if row[2] != staged {
		t.Error("unexpected destination column:", row[2])
	}
	if row[3] != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Error("unexpected hash column:", row[3])
	}
	if row[4] != "false" {
		t.Error("unexpected from_ntfs column:", row[4])
	}
	if row[7] != "5" {
		t.Error("unexpected size column:", row[7])
	}
}

// TestProcessFileMissingSource tests that acquiring a missing file fails
// without emitting a manifest row.
func TestProcessFileMissingSource(t *testing.T) {
	collector, source, _ := newTestCollector(t, nil)
	if err := collector.processFile(filepath.Join(source, "absent.txt")); err == nil {
		t.Fatal("acquisition succeeded for missing file")
	}
	if stats := collector.Stats(); stats.FilesCollected != 0 {
		t.Error("counters incremented for failed acquisition:", stats)
	}
	if rows := readManifest(t, collector); len(rows) != 1 {
		t.Error("manifest row emitted for failed acquisition")
	}
}

// TestExpandPatterns tests glob expansion against the source root.
func TestExpandPatterns(t *testing.T) {
	collector, source, _ := newTestCollector(t, []string{"logs/**/*.log", `\rooted.txt`})
	writeSourceFile(t, source, "logs/app/app.log", "a")
	writeSourceFile(t, source, "logs/system.log", "b")
	writeSourceFile(t, source, "logs/readme.txt", "c")
	writeSourceFile(t, source, "rooted.txt", "d")

	// Directories must not match.
	if err := os.MkdirAll(filepath.Join(source, "logs", "empty.log"), 0700); err != nil {
		t.Fatal("unable to create directory:", err)
	}

	files := collector.expandPatterns()
	if len(files) != 3 {
		t.Error("unexpected match count:", len(files), files)
	}
	if collector.CountFiles() != 3 {
		t.Error("unexpected file count:", collector.CountFiles())
	}
}

// TestDestinationRelativePathSnapshot tests snapshot prefix substitution.
func TestDestinationRelativePathSnapshot(t *testing.T) {
	collector, source, _ := newTestCollector(t, nil)
	path := filepath.Join(source, "Windows", "file.txt")

	// Without a snapshot, the source-root prefix is stripped so that only
	// the relative structure below it remains.
	expected := string(os.PathSeparator) + filepath.Join("Windows", "file.txt")
	if relative := collector.destinationRelativePath(path); relative != expected {
		t.Error("unexpected relative path:", relative)
	}

	// With a snapshot, the source-root prefix is substituted with the
	// snapshot identifier.
	collector.UseSnapshot("HarddiskVolumeShadowCopy1", `\\?\GLOBALROOT\Device\HarddiskVolumeShadowCopy1`)
	relative := collector.destinationRelativePath(path)
	if !strings.HasPrefix(relative, "HarddiskVolumeShadowCopy1") {
		t.Error("snapshot identifier missing from relative path:", relative)
	}
	if strings.Contains(relative, source) {
		t.Error("source root still present in relative path:", relative)
	}
}

// TestCollect tests a full collection pass. It requires elevation, which the
// engine checks before opening any file.
func TestCollect(t *testing.T) {
	collector, source, _ := newTestCollector(t, []string{"a/**/*.txt", "missing/**"})
	writeSourceFile(t, source, "a/b/c.txt", "hello")
	writeSourceFile(t, source, "a/d.txt", "world")

	if !privilege.Elevated() {
		if _, err := collector.Collect(nil); err != privilege.ErrInsufficientPrivileges {
			t.Error("unexpected error for unelevated collection:", err)
		}
		t.Skip("skipping full collection: not elevated")
	}

	// Track progress invocations.
	var invocations []uint64
	stats, err := collector.Collect(func(current, total uint64, path string) {
		invocations = append(invocations, current)
		if total != 2 {
			t.Error("unexpected progress total:", total)
		}
	})
	if err != nil {
		t.Fatal("collection failed:", err)
	}

	if stats.FilesCollected != 2 {
		t.Error("unexpected file count:", stats.FilesCollected)
	}
	if stats.FilesystemExtractions != 2 {
		t.Error("unexpected filesystem count:", stats.FilesystemExtractions)
	}
	if stats.FailedExtractions != 0 {
		t.Error("unexpected failure count:", stats.FailedExtractions)
	}
	if stats.PatternsProcessed != 2 {
		t.Error("unexpected pattern count:", stats.PatternsProcessed)
	}
	if len(invocations) != 2 || invocations[0] != 1 || invocations[1] != 2 {
		t.Error("unexpected progress invocations:", invocations)
	}

	// A second pass over the same source produces identical hash columns.
	rows := readManifest(t, collector)
	if _, err := collector.Collect(nil); err != nil {
		t.Fatal("second collection failed:", err)
	}
	rerunRows := readManifest(t, collector)
	if len(rerunRows) != 2*len(rows)-1 {
		t.Fatal("unexpected rerun manifest length:", len(rerunRows))
	}
	hashes := make(map[string]string)
	for _, row := range rows[1:] {
		hashes[row[1]] = row[3]
	}
	for _, row := range rerunRows[len(rows):] {
		if hashes[row[1]] != row[3] {
			t.Error("hash mismatch on rerun for", row[1])
		}
	}
}
